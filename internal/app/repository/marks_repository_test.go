package repository

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFavoriteRepository(t *testing.T) {
	f := setupRecipeTest(t)
	recipe := f.create(t, "cake", f.tags[:1], line(f.ingredients[4], 100))
	repo := NewFavoriteRepository(f.db)

	exists, err := repo.Exists(f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(&model.Favorite{UserID: f.reader.ID, RecipeID: recipe.ID}))

	err = repo.Create(&model.Favorite{UserID: f.reader.ID, RecipeID: recipe.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	marked, err := repo.RecipeIDs(f.reader.ID, []uint{recipe.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{recipe.ID: true}, marked)

	removed, err := repo.Delete(f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestShoppingCartRepository(t *testing.T) {
	f := setupRecipeTest(t)
	recipe := f.create(t, "pie", f.tags[:1], line(f.ingredients[0], 300))
	repo := NewShoppingCartRepository(f.db)

	require.NoError(t, repo.Create(&model.ShoppingCartItem{UserID: f.reader.ID, RecipeID: recipe.ID}))

	exists, err := repo.Exists(f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(&model.ShoppingCartItem{UserID: f.reader.ID, RecipeID: recipe.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	marked, err := repo.RecipeIDs(f.author.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, marked)

	removed, err := repo.Delete(f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestSubscriptionRepository(t *testing.T) {
	f := setupRecipeTest(t)
	repo := NewSubscriptionRepository(f.db)

	third := newTestUser(3)
	require.NoError(t, f.db.Create(third).Error)

	require.NoError(t, repo.Create(&model.Subscription{UserID: f.reader.ID, AuthorID: f.author.ID}))
	require.NoError(t, repo.Create(&model.Subscription{UserID: f.reader.ID, AuthorID: third.ID}))

	err := repo.Create(&model.Subscription{UserID: f.reader.ID, AuthorID: f.author.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.Exists(f.reader.ID, f.author.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	authors, total, err := repo.FindAuthors(f.reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, authors, 2)
	assert.Equal(t, f.author.ID, authors[0].ID)
	assert.Equal(t, third.ID, authors[1].ID)

	followed, err := repo.AuthorIDs(f.reader.ID, []uint{f.author.ID, f.reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{f.author.ID: true}, followed)

	removed, err := repo.Delete(f.reader.ID, f.author.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(f.reader.ID, f.author.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
