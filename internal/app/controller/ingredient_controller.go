package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

// ListIngredients searches the catalog by name, unpaginated
// GET /api/ingredients/?name=
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	name := c.Query("name")

	ingredients, err := ctrl.ingredientService.Search(name)
	if err != nil {
		respondError(c, err, "search ingredients")
		return
	}

	log.Debug("Ingredients listed", map[string]interface{}{
		"name":  name,
		"count": len(ingredients),
	})
	c.JSON(http.StatusOK, dto.NewIngredientList(ingredients))
}

// GetIngredient
// GET /api/ingredients/:id/
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ingredient, err := ctrl.ingredientService.GetIngredient(id)
	if err != nil {
		respondError(c, err, "get ingredient")
		return
	}
	c.JSON(http.StatusOK, dto.NewIngredientRead(ingredient))
}
