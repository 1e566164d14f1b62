package model

import (
	"time"
)

const (
	IngredientNameMaxLength = 128
	IngredientUnitMaxLength = 64
)

type Ingredient struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
