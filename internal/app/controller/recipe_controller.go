package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/app/shoppinglist"
	"github.com/ikkim/foodgram-backend/internal/app/shortlink"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

const (
	textContentType = "text/plain; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type RecipeController struct {
	recipeService   service.RecipeService
	favoriteService service.FavoriteService
	cartService     service.ShoppingCartService
	cfg             config.RecipeConfig
}

func NewRecipeController(
	recipeService service.RecipeService,
	favoriteService service.FavoriteService,
	cartService service.ShoppingCartService,
	cfg config.RecipeConfig,
) *RecipeController {
	return &RecipeController{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		cartService:     cartService,
		cfg:             cfg,
	}
}

func recipeRead(v *service.RecipeView) dto.RecipeRead {
	return dto.NewRecipeRead(&v.Recipe, v.Viewer)
}

// parseRecipeQuery reads the listing filters. Malformed values are a 400.
func parseRecipeQuery(c *gin.Context, page pageRequest) (service.RecipeQuery, bool) {
	query := service.RecipeQuery{
		TagSlugs: c.QueryArray("tags"),
		Offset:   page.Offset(),
		Limit:    page.Limit,
	}

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.RespondWithFieldError(c, apperrors.ValidationInvalidID, "author", "author must be a user id", nil)
			return query, false
		}
		author := uint(id)
		query.AuthorID = &author
	}

	flags := []struct {
		name   string
		target *bool
	}{
		{"is_favorited", &query.IsFavorited},
		{"is_in_shopping_cart", &query.IsInShoppingCart},
	}
	for _, f := range flags {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.RespondWithFieldError(c, apperrors.ValidationInvalidFormat, f.name, f.name+" must be 0 or 1", nil)
			return query, false
		}
		*f.target = v
	}
	return query, true
}

// ListRecipes
// GET /api/recipes/?page=&limit=&author=&tags=&is_favorited=&is_in_shopping_cart=
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	page, ok := parsePage(c, ctrl.cfg)
	if !ok {
		return
	}
	query, ok := parseRecipeQuery(c, page)
	if !ok {
		return
	}

	views, total, err := ctrl.recipeService.List(middleware.GetViewerID(c), query)
	if err != nil {
		respondError(c, err, "list recipes")
		return
	}

	results := make([]dto.RecipeRead, len(views))
	for i := range views {
		results[i] = recipeRead(&views[i])
	}
	writePage(c, page, results, total)
}

// GetRecipe
// GET /api/recipes/:id/
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.recipeService.Get(middleware.GetViewerID(c), id)
	if err != nil {
		respondError(c, err, "get recipe")
		return
	}
	c.JSON(http.StatusOK, recipeRead(view))
}

// CreateRecipe
// POST /api/recipes/
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := ctrl.recipeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "create recipe")
		return
	}

	log.Info("Recipe created", map[string]interface{}{
		"recipe_id": view.Recipe.ID,
		"author_id": userID,
	})
	c.JSON(http.StatusCreated, recipeRead(view))
}

// UpdateRecipe replaces the recipe wholesale; an empty image keeps the old one
// PATCH /api/recipes/:id/
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := ctrl.recipeService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err, "update recipe")
		return
	}
	c.JSON(http.StatusOK, recipeRead(view))
}

// DeleteRecipe
// DELETE /api/recipes/:id/
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLink returns the absolute short link of a recipe
// GET /api/recipes/:id/get-link/
func (ctrl *RecipeController) GetLink(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	token, err := ctrl.recipeService.ShortLinkToken(id)
	if err != nil {
		respondError(c, err, "get short link")
		return
	}

	link := shortlink.URL(requestScheme(c), c.Request.Host, ctrl.cfg.ShortLinkPrefix, token)
	c.JSON(http.StatusOK, dto.ShortLinkRead{ShortLink: link})
}

// AddFavorite
// POST /api/recipes/:id/favorite/
func (ctrl *RecipeController) AddFavorite(c *gin.Context) {
	ctrl.addMark(c, "add favorite", ctrl.favoriteService.AddFavorite)
}

// RemoveFavorite
// DELETE /api/recipes/:id/favorite/
func (ctrl *RecipeController) RemoveFavorite(c *gin.Context) {
	ctrl.removeMark(c, "remove favorite", ctrl.favoriteService.RemoveFavorite)
}

// AddToCart
// POST /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) AddToCart(c *gin.Context) {
	ctrl.addMark(c, "add to shopping cart", ctrl.cartService.AddToCart)
}

// RemoveFromCart
// DELETE /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) RemoveFromCart(c *gin.Context) {
	ctrl.removeMark(c, "remove from shopping cart", ctrl.cartService.RemoveFromCart)
}

func (ctrl *RecipeController) addMark(c *gin.Context, action string, add func(userID, recipeID uint) (*model.Recipe, error)) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := add(userID, id)
	if err != nil {
		respondError(c, err, action)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRecipeShort(recipe))
}

func (ctrl *RecipeController) removeMark(c *gin.Context, action string, remove func(userID, recipeID uint) error) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := remove(userID, id); err != nil {
		respondError(c, err, action)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart exports the aggregated shopping list as text, or as a
// spreadsheet with ?format=xlsx
// GET /api/recipes/download_shopping_cart/
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := ctrl.cartService.ShoppingList(userID)
	if err != nil {
		respondError(c, err, "build shopping list")
		return
	}

	switch format := c.DefaultQuery("format", "txt"); format {
	case "txt":
		attachment(c, "shopping_cart.txt")
		c.Data(http.StatusOK, textContentType, []byte(shoppinglist.RenderText(items)))
	case "xlsx":
		data, err := shoppinglist.RenderXLSX(items)
		if err != nil {
			log.Error("Failed to render shopping list workbook", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to build the shopping list")
			return
		}
		attachment(c, "shopping_cart.xlsx")
		c.Data(http.StatusOK, xlsxContentType, data)
	default:
		apperrors.RespondWithFieldError(c, apperrors.ValidationInvalidFormat, "format",
			fmt.Sprintf("unsupported format %q, use txt or xlsx", format), nil)
	}
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
