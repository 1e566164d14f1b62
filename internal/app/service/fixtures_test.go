package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 1x1 transparent PNG
const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const testMaxImageSize = 1 << 20

type fixture struct {
	db          *gorm.DB
	mediaDir    string
	images      *storage.LocalStorage
	author      *model.User
	reader      *model.User
	tags        []model.Tag
	ingredients map[string]model.Ingredient

	userRepo     repository.UserRepository
	recipeRepo   repository.RecipeRepository
	favoriteRepo repository.FavoriteRepository
	cartRepo     repository.ShoppingCartRepository
	subRepo      repository.SubscriptionRepository

	users         UserService
	recipes       RecipeService
	favorites     FavoriteService
	cart          ShoppingCartService
	subscriptions SubscriptionService
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &fixture{
		db:           testDB,
		mediaDir:     t.TempDir(),
		userRepo:     repository.NewUserRepository(testDB),
		recipeRepo:   repository.NewRecipeRepository(testDB),
		favoriteRepo: repository.NewFavoriteRepository(testDB),
		cartRepo:     repository.NewShoppingCartRepository(testDB),
		subRepo:      repository.NewSubscriptionRepository(testDB),
	}
	f.images = storage.NewLocalStorage(f.mediaDir, "/media")

	f.author = f.createUser(t, "chef")
	f.reader = f.createUser(t, "reader")

	f.tags = []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, testDB.Create(&f.tags).Error)

	catalog := []model.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pcs"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "sugar", MeasurementUnit: "g"},
	}
	require.NoError(t, testDB.Create(&catalog).Error)
	f.ingredients = make(map[string]model.Ingredient, len(catalog))
	for _, ing := range catalog {
		f.ingredients[ing.Name] = ing
	}

	tagRepo := repository.NewTagRepository(testDB)
	ingredientRepo := repository.NewIngredientRepository(testDB)
	cfg := config.DefaultRecipeConfig()

	f.users = NewUserService(f.userRepo, f.subRepo, f.images, testMaxImageSize)
	f.recipes = NewRecipeService(f.recipeRepo, tagRepo, ingredientRepo, f.favoriteRepo, f.cartRepo, f.subRepo, f.images, cfg, testMaxImageSize)
	f.favorites = NewFavoriteService(f.favoriteRepo, f.recipeRepo)
	f.cart = NewShoppingCartService(f.cartRepo, f.recipeRepo)
	f.subscriptions = NewSubscriptionService(f.subRepo, f.userRepo, f.recipeRepo, cfg.MaxPageSize)
	return f
}

// createUser stores a user directly, skipping password hashing.
func (f *fixture) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "unused",
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) ing(name string, amount int) dto.IngredientAmountRequest {
	return dto.IngredientAmountRequest{ID: f.ingredients[name].ID, Amount: amount}
}

func (f *fixture) recipeRequest(name string, lines ...dto.IngredientAmountRequest) dto.RecipeWriteRequest {
	return dto.RecipeWriteRequest{
		Ingredients: lines,
		Tags:        []uint{f.tags[0].ID},
		Image:       pixelPNG,
		Name:        name,
		Text:        "Mix everything and bake.",
		CookingTime: 20,
	}
}

func (f *fixture) mediaExists(key string) bool {
	_, err := os.Stat(filepath.Join(f.mediaDir, filepath.FromSlash(key)))
	return err == nil
}

func uintPtr(v uint) *uint { return &v }
