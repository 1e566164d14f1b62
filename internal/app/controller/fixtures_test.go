package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// 1x1 transparent PNG
const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type controllerTest struct {
	router      *gin.Engine
	author      *model.User
	reader      *model.User
	authorToken string
	readerToken string
	tags        []model.Tag
	ingredients []model.Ingredient
}

// setupControllerTest wires the user and recipe controllers on sqlite with
// two users, three tags and two ingredients.
func setupControllerTest(t *testing.T) *controllerTest {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, dto.RegisterBindings())

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := config.DefaultRecipeConfig()
	images := storage.NewLocalStorage(t.TempDir(), "/media")

	userRepo := repository.NewUserRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	ingredientRepo := repository.NewIngredientRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	cartRepo := repository.NewShoppingCartRepository(testDB)
	subRepo := repository.NewSubscriptionRepository(testDB)

	ct := &controllerTest{
		tags: []model.Tag{
			{Name: "Breakfast", Slug: "breakfast"},
			{Name: "Lunch", Slug: "lunch"},
			{Name: "Dinner", Slug: "dinner"},
		},
		ingredients: []model.Ingredient{
			{Name: "flour", MeasurementUnit: "g"},
			{Name: "egg", MeasurementUnit: "pcs"},
		},
	}
	require.NoError(t, testDB.Create(&ct.tags).Error)
	require.NoError(t, testDB.Create(&ct.ingredients).Error)

	ct.author, ct.authorToken = createTestUser(t, userRepo, "chef")
	ct.reader, ct.readerToken = createTestUser(t, userRepo, "reader")

	authService := service.NewAuthService(userRepo, nil, testSecret, time.Hour)
	auth := middleware.NewAuthMiddleware(authService)

	userCtrl := NewUserController(
		service.NewUserService(userRepo, subRepo, images, 1<<20),
		service.NewSubscriptionService(subRepo, userRepo, recipeRepo, cfg.MaxPageSize),
		cfg,
	)
	recipeCtrl := NewRecipeController(
		service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favoriteRepo, cartRepo, subRepo, images, cfg, 1<<20),
		service.NewFavoriteService(favoriteRepo, recipeRepo),
		service.NewShoppingCartService(cartRepo, recipeRepo),
		cfg,
	)
	tagCtrl := NewTagController(service.NewTagService(tagRepo))
	ingredientCtrl := NewIngredientController(service.NewIngredientService(ingredientRepo))

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	required := auth.Authenticate()
	optional := auth.OptionalAuthenticate()

	router.GET("/users/", optional, userCtrl.ListUsers)
	router.POST("/users/", userCtrl.Register)
	router.GET("/users/me/", required, userCtrl.GetMe)
	router.PUT("/users/me/avatar/", required, userCtrl.SetAvatar)
	router.GET("/users/subscriptions/", required, userCtrl.Subscriptions)
	router.GET("/users/:id/", optional, userCtrl.GetUser)
	router.POST("/users/:id/subscribe/", required, userCtrl.Subscribe)

	router.GET("/tags/", tagCtrl.ListTags)
	router.GET("/tags/:id/", tagCtrl.GetTag)
	router.GET("/ingredients/", ingredientCtrl.ListIngredients)
	router.GET("/ingredients/:id/", ingredientCtrl.GetIngredient)

	router.GET("/recipes/", optional, recipeCtrl.ListRecipes)
	router.POST("/recipes/", required, recipeCtrl.CreateRecipe)
	router.GET("/recipes/download_shopping_cart/", required, recipeCtrl.DownloadShoppingCart)
	router.GET("/recipes/:id/", optional, recipeCtrl.GetRecipe)
	router.PATCH("/recipes/:id/", required, recipeCtrl.UpdateRecipe)
	router.GET("/recipes/:id/get-link/", recipeCtrl.GetLink)
	router.POST("/recipes/:id/shopping_cart/", required, recipeCtrl.AddToCart)
	router.DELETE("/recipes/:id/shopping_cart/", required, recipeCtrl.RemoveFromCart)

	ct.router = router
	return ct
}

func createTestUser(t *testing.T, repo repository.UserRepository, username string) (*model.User, string) {
	t.Helper()
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "unused",
	}
	require.NoError(t, repo.Create(user))

	token, _, err := util.GenerateToken(user.ID, user.Email, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (ct *controllerTest) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ct.router.ServeHTTP(w, req)
	return w
}

func (ct *controllerTest) recipeBody(name string) dto.RecipeWriteRequest {
	return dto.RecipeWriteRequest{
		Ingredients: []dto.IngredientAmountRequest{{ID: ct.ingredients[0].ID, Amount: 100}},
		Tags:        []uint{ct.tags[0].ID},
		Image:       pixelPNG,
		Name:        name,
		Text:        "Mix and bake.",
		CookingTime: 20,
	}
}

// createRecipe posts a recipe as the author and returns its id.
func (ct *controllerTest) createRecipe(t *testing.T, name string) uint {
	t.Helper()
	w := ct.request(http.MethodPost, "/recipes/", ct.authorToken, ct.recipeBody(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recipe dto.RecipeRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe.ID
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
