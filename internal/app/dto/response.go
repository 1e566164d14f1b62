package dto

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
)

type UserRead struct {
	Email        string  `json:"email"`
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// UserCreated is returned by registration; it carries no viewer state.
type UserCreated struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TagRead struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type IngredientRead struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type RecipeIngredientRead struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeRead struct {
	ID               uint                   `json:"id"`
	Tags             []TagRead              `json:"tags"`
	Author           UserRead               `json:"author"`
	Ingredients      []RecipeIngredientRead `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            *string                `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShort is the compact shape used by favorites, cart and subscriptions.
type RecipeShort struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int     `json:"cooking_time"`
}

type SubscriptionRead struct {
	UserRead
	RecipesCount int64         `json:"recipes_count"`
	Recipes      []RecipeShort `json:"recipes"`
}

type AvatarRead struct {
	Avatar string `json:"avatar"`
}

type TokenRead struct {
	AuthToken string `json:"auth_token"`
}

type ShortLinkRead struct {
	ShortLink string `json:"short-link"`
}

// RecipeViewer is what the requesting user has done with a recipe.
type RecipeViewer struct {
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

func optionalURL(u string) *string {
	if u == "" {
		return nil
	}
	return &u
}

func NewUserRead(u *model.User, isSubscribed bool) UserRead {
	return UserRead{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       optionalURL(u.Avatar),
	}
}

func NewUserCreated(u *model.User) UserCreated {
	return UserCreated{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func NewTagRead(t *model.Tag) TagRead {
	return TagRead{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func NewTagList(tags []model.Tag) []TagRead {
	out := make([]TagRead, len(tags))
	for i := range tags {
		out[i] = NewTagRead(&tags[i])
	}
	return out
}

func NewIngredientRead(i *model.Ingredient) IngredientRead {
	return IngredientRead{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func NewIngredientList(items []model.Ingredient) []IngredientRead {
	out := make([]IngredientRead, len(items))
	for i := range items {
		out[i] = NewIngredientRead(&items[i])
	}
	return out
}

// NewRecipeRead expects Author, Tags and Ingredients.Ingredient preloaded.
func NewRecipeRead(r *model.Recipe, viewer RecipeViewer) RecipeRead {
	ingredients := make([]RecipeIngredientRead, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = RecipeIngredientRead{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}

	return RecipeRead{
		ID:               r.ID,
		Tags:             NewTagList(r.Tags),
		Author:           NewUserRead(&r.Author, viewer.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      viewer.IsFavorited,
		IsInShoppingCart: viewer.IsInShoppingCart,
		Name:             r.Name,
		Image:            optionalURL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func NewRecipeShort(r *model.Recipe) RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       optionalURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func NewRecipeShortList(recipes []model.Recipe) []RecipeShort {
	out := make([]RecipeShort, len(recipes))
	for i := range recipes {
		out[i] = NewRecipeShort(&recipes[i])
	}
	return out
}

// NewSubscriptionRead projects a followed author. The viewer is always
// subscribed to authors listed this way.
func NewSubscriptionRead(author *model.User, recipes []model.Recipe, recipesCount int64) SubscriptionRead {
	return SubscriptionRead{
		UserRead:     NewUserRead(author, true),
		RecipesCount: recipesCount,
		Recipes:      NewRecipeShortList(recipes),
	}
}
