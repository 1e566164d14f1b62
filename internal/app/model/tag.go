package model

import (
	"time"
)

const TagMaxLength = 32

// Tag is an admin-managed label; recipes carry a set of tags.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeTag is the many-to-many join between recipes and tags.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey;index"`
	TagID    uint `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
