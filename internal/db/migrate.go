package db

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeTag{},
		&model.RecipeIngredient{},
		&model.Favorite{},
		&model.ShoppingCartItem{},
		&model.Subscription{},
	}
}

// DefaultTags are created on first migration so recipes can be tagged
// before an admin imports a catalog.
var DefaultTags = []model.Tag{
	{Name: "Завтрак", Slug: "breakfast"},
	{Name: "Обед", Slug: "lunch"},
	{Name: "Ужин", Slug: "dinner"},
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates and seeds the given connection.
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := autoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedTags(db, DefaultTags); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// autoMigrate registers the recipe_tags join model and migrates every table.
func autoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Recipe{}, "Tags", &model.RecipeTag{}); err != nil {
		return err
	}
	return db.AutoMigrate(Models()...)
}

// SeedTags inserts tags whose slug is not taken yet.
func SeedTags(db *gorm.DB, tags []model.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]model.Tag, len(tags))
	copy(rows, tags)

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		logger.Error("Failed to seed tags", result.Error)
		return result.Error
	}

	logger.Info("Tags seeded", map[string]interface{}{
		"requested": len(tags),
		"inserted":  result.RowsAffected,
	})
	return nil
}

// SeedIngredients inserts ingredients whose (name, unit) pair is not taken yet.
func SeedIngredients(db *gorm.DB, ingredients []model.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	rows := make([]model.Ingredient, len(ingredients))
	copy(rows, ingredients)

	result := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 500)
	if result.Error != nil {
		logger.Error("Failed to seed ingredients", result.Error)
		return 0, result.Error
	}

	logger.Info("Ingredients seeded", map[string]interface{}{
		"requested": len(ingredients),
		"inserted":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}
