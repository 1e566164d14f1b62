package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	domain "github.com/ikkim/foodgram-backend/internal/app/validation"
)

// ========================================
// AUTH / USER requests
// ========================================

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Username  string `json:"username" binding:"required,username"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, model.UserEmailMaxLength),
		),
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, model.UserNameMaxLength),
		),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, model.UserNameMaxLength)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, model.UserNameMaxLength)),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

func (r SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required),
		validation.Field(&r.CurrentPassword, validation.Required),
	)
}

// AvatarRequest carries the avatar as a base64 data URI.
type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

func (r AvatarRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Avatar, validation.Required.Error("avatar is required")),
	)
}

// ========================================
// RECIPE requests
// ========================================

type IngredientAmountRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeWriteRequest is the create/update body. Image is a base64 data URI;
// on update an empty image keeps the stored one. Tag, ingredient, image and
// cooking-time rules are domain checks run by the recipe service.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []uint                    `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

func (r RecipeWriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, model.RecipeNameMaxLength),
		),
		validation.Field(&r.Text, validation.Required.Error("text is required")),
	)
}

// IngredientAmounts converts the request lines for the domain validators.
func (r RecipeWriteRequest) IngredientAmounts() []domain.IngredientAmount {
	out := make([]domain.IngredientAmount, len(r.Ingredients))
	for i, item := range r.Ingredients {
		out[i] = domain.IngredientAmount{ID: item.ID, Amount: item.Amount}
	}
	return out
}
