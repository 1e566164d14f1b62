package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeController_CreateRecipe_Success(t *testing.T) {
	ct := setupControllerTest(t)

	w := ct.request(http.MethodPost, "/recipes/", ct.authorToken, ct.recipeBody("Bread"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe dto.RecipeRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.Equal(t, "Bread", recipe.Name)
	assert.Equal(t, ct.author.ID, recipe.Author.ID)
	assert.False(t, recipe.Author.IsSubscribed)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "breakfast", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 100, recipe.Ingredients[0].Amount)
	assert.Equal(t, "g", recipe.Ingredients[0].MeasurementUnit)
}

func TestRecipeController_CreateRecipe_Unauthenticated(t *testing.T) {
	ct := setupControllerTest(t)

	w := ct.request(http.MethodPost, "/recipes/", "", ct.recipeBody("Bread"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeController_CreateRecipe_DomainErrors(t *testing.T) {
	ct := setupControllerTest(t)

	tests := []struct {
		name   string
		mutate func(*dto.RecipeWriteRequest)
		code   string
		field  string
	}{
		{
			name:   "unknown tag",
			mutate: func(r *dto.RecipeWriteRequest) { r.Tags = []uint{999} },
			code:   "VALIDATION_UNKNOWN_REFERENCE",
			field:  "tags",
		},
		{
			name:   "no tags",
			mutate: func(r *dto.RecipeWriteRequest) { r.Tags = nil },
			code:   "VALIDATION_REQUIRED",
			field:  "tags",
		},
		{
			name:   "no ingredients",
			mutate: func(r *dto.RecipeWriteRequest) { r.Ingredients = nil },
			code:   "VALIDATION_REQUIRED",
			field:  "ingredients",
		},
		{
			name:   "zero amount",
			mutate: func(r *dto.RecipeWriteRequest) { r.Ingredients[0].Amount = 0 },
			code:   "VALIDATION_INVALID_AMOUNT",
			field:  "ingredients",
		},
		{
			name:   "zero cooking time",
			mutate: func(r *dto.RecipeWriteRequest) { r.CookingTime = 0 },
			code:   "VALIDATION_BELOW_MINIMUM",
			field:  "cooking_time",
		},
		{
			name:   "missing image",
			mutate: func(r *dto.RecipeWriteRequest) { r.Image = "" },
			code:   "VALIDATION_REQUIRED",
			field:  "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ct.recipeBody("Bread")
			tt.mutate(&body)

			w := ct.request(http.MethodPost, "/recipes/", ct.authorToken, body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			resp := errorBody(t, w)
			assert.Equal(t, tt.code, resp["error"])
			assert.Equal(t, tt.field, resp["field"])
		})
	}
}

func TestRecipeController_CreateRecipe_MissingName(t *testing.T) {
	ct := setupControllerTest(t)

	body := ct.recipeBody("")
	w := ct.request(http.MethodPost, "/recipes/", ct.authorToken, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := errorBody(t, w)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", resp["error"])
	assert.Contains(t, resp["fields"], "name")
}

func TestRecipeController_GetRecipe(t *testing.T) {
	ct := setupControllerTest(t)
	id := ct.createRecipe(t, "Bread")

	w := ct.request(http.MethodGet, fmt.Sprintf("/recipes/%d/", id), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ct.request(http.MethodGet, "/recipes/9999/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ct.request(http.MethodGet, "/recipes/abc/", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_ID", errorBody(t, w)["error"])
}

func TestRecipeController_UpdateRecipe_NotAuthor(t *testing.T) {
	ct := setupControllerTest(t)
	id := ct.createRecipe(t, "Bread")

	w := ct.request(http.MethodPatch, fmt.Sprintf("/recipes/%d/", id), ct.readerToken, ct.recipeBody("Stolen"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_OWNER_ONLY", errorBody(t, w)["error"])
}

func TestRecipeController_ListRecipes_Filters(t *testing.T) {
	ct := setupControllerTest(t)
	ct.createRecipe(t, "Bread")

	t.Run("malformed author", func(t *testing.T) {
		w := ct.request(http.MethodGet, "/recipes/?author=me", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "author", errorBody(t, w)["field"])
	})

	t.Run("malformed flag", func(t *testing.T) {
		w := ct.request(http.MethodGet, "/recipes/?is_favorited=maybe", ct.readerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "is_favorited", errorBody(t, w)["field"])
	})

	t.Run("tag filter matches any slug", func(t *testing.T) {
		w := ct.request(http.MethodGet, "/recipes/?tags=lunch&tags=breakfast", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page dto.Page[dto.RecipeRead]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Count)

		w = ct.request(http.MethodGet, "/recipes/?tags=dinner", "", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(0), page.Count)
		assert.NotNil(t, page.Results)
	})

	t.Run("author filter", func(t *testing.T) {
		w := ct.request(http.MethodGet, fmt.Sprintf("/recipes/?author=%d", ct.reader.ID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page dto.Page[dto.RecipeRead]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(0), page.Count)
	})

	t.Run("anonymous favorite filter is ignored", func(t *testing.T) {
		w := ct.request(http.MethodGet, "/recipes/?is_favorited=1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page dto.Page[dto.RecipeRead]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Count)
	})
}

func TestRecipeController_ListRecipes_Pagination(t *testing.T) {
	ct := setupControllerTest(t)
	for i := 0; i < 3; i++ {
		ct.createRecipe(t, fmt.Sprintf("Dish %d", i))
	}

	w := ct.request(http.MethodGet, "/recipes/?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.Page[dto.RecipeRead]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Dish 2", page.Results[0].Name)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.com/recipes/?limit=2&page=2", *page.Next)

	w = ct.request(http.MethodGet, "/recipes/?limit=2&page=2", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Results, 1)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)

	for _, q := range []string{"page=0", "page=abc", "limit=2&page=3"} {
		w = ct.request(http.MethodGet, "/recipes/?"+q, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, q)
	}
}

func TestRecipeController_GetLink(t *testing.T) {
	ct := setupControllerTest(t)
	id := ct.createRecipe(t, "Bread")

	req := ct.request(http.MethodGet, fmt.Sprintf("/recipes/%d/get-link/", id), "", nil)
	require.Equal(t, http.StatusOK, req.Code)

	var first dto.ShortLinkRead
	require.NoError(t, json.Unmarshal(req.Body.Bytes(), &first))
	assert.Regexp(t, `^http://example\.com/s/[0-9a-f]{8}/$`, first.ShortLink)

	req = ct.request(http.MethodGet, fmt.Sprintf("/recipes/%d/get-link/", id), "", nil)
	var second dto.ShortLinkRead
	require.NoError(t, json.Unmarshal(req.Body.Bytes(), &second))
	assert.Equal(t, first, second)

	req = ct.request(http.MethodGet, "/recipes/9999/get-link/", "", nil)
	assert.Equal(t, http.StatusNotFound, req.Code)
}

func TestRecipeController_ShoppingCart(t *testing.T) {
	ct := setupControllerTest(t)
	id := ct.createRecipe(t, "Bread")
	path := fmt.Sprintf("/recipes/%d/shopping_cart/", id)

	w := ct.request(http.MethodPost, path, ct.readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var short dto.RecipeShort
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &short))
	assert.Equal(t, "Bread", short.Name)
	assert.Equal(t, 20, short.CookingTime)

	w = ct.request(http.MethodPost, path, ct.readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RESOURCE_ALREADY_EXISTS", errorBody(t, w)["error"])

	w = ct.request(http.MethodPost, "/recipes/9999/shopping_cart/", ct.readerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ct.request(http.MethodGet, "/recipes/download_shopping_cart/", ct.readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Список покупок:\nflour — 100 g\n", w.Body.String())

	w = ct.request(http.MethodGet, "/recipes/download_shopping_cart/?format=xlsx", ct.readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_cart.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = ct.request(http.MethodGet, "/recipes/download_shopping_cart/?format=pdf", ct.readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "format", errorBody(t, w)["field"])

	w = ct.request(http.MethodDelete, path, ct.readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ct.request(http.MethodDelete, path, ct.readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", errorBody(t, w)["error"])
}

func TestRecipeController_TagsAndIngredients(t *testing.T) {
	ct := setupControllerTest(t)

	w := ct.request(http.MethodGet, "/tags/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []dto.TagRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	assert.Len(t, tags, 3)

	w = ct.request(http.MethodGet, fmt.Sprintf("/tags/%d/", ct.tags[1].ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tag dto.TagRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tag))
	assert.Equal(t, "lunch", tag.Slug)

	w = ct.request(http.MethodGet, "/tags/9999/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ct.request(http.MethodGet, "/ingredients/?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []dto.IngredientRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "flour", ingredients[0].Name)

	w = ct.request(http.MethodGet, "/ingredients/9999/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
