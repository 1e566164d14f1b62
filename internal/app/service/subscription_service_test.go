package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/foodgram-backend/internal/app/validation"
)

func TestSubscriptionService_SelfSubscribeAlwaysFails(t *testing.T) {
	f := setupFixture(t)

	for _, limit := range []int{0, 3, 100} {
		_, err := f.subscriptions.Subscribe(f.author.ID, f.author.ID, limit)
		assert.ErrorIs(t, err, &validation.Error{Kind: validation.SelfReference}, "recipes_limit=%d", limit)
	}

	exists, err := f.subRepo.Exists(f.author.ID, f.author.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSubscriptionService_SubscribeAndUnsubscribe(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.recipes.Create(ctx, f.author.ID, f.recipeRequest(fmt.Sprintf("Pancakes %d", i), f.ing("flour", 100)))
		require.NoError(t, err)
	}

	feed, err := f.subscriptions.Subscribe(f.reader.ID, f.author.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, feed.Author.ID)
	assert.Equal(t, int64(4), feed.RecipesCount)
	require.Len(t, feed.Recipes, 2)
	assert.Equal(t, "Pancakes 3", feed.Recipes[0].Name)

	_, err = f.subscriptions.Subscribe(f.reader.ID, f.author.ID, 2)
	assert.ErrorIs(t, err, &validation.Error{Kind: validation.AlreadyExists})

	_, err = f.subscriptions.Subscribe(f.reader.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.subscriptions.Subscribe(f.author.ID, f.reader.ID, 101)
	assert.ErrorIs(t, err, &validation.Error{Kind: validation.LimitExceeded})

	require.NoError(t, f.subscriptions.Unsubscribe(f.reader.ID, f.author.ID))
	assert.ErrorIs(t, f.subscriptions.Unsubscribe(f.reader.ID, f.author.ID), ErrNotSubscribed)
}

func TestSubscriptionService_List(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	third := f.createUser(t, "baker")

	_, err := f.recipes.Create(ctx, third.ID, f.recipeRequest("Bread", f.ing("flour", 500)))
	require.NoError(t, err)

	_, err = f.subscriptions.Subscribe(f.reader.ID, f.author.ID, 3)
	require.NoError(t, err)
	_, err = f.subscriptions.Subscribe(f.reader.ID, third.ID, 3)
	require.NoError(t, err)

	feeds, total, err := f.subscriptions.List(f.reader.ID, 0, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, feeds, 2)

	assert.Equal(t, f.author.ID, feeds[0].Author.ID)
	assert.Empty(t, feeds[0].Recipes)
	assert.NotNil(t, feeds[0].Recipes)
	assert.Equal(t, int64(0), feeds[0].RecipesCount)

	assert.Equal(t, third.ID, feeds[1].Author.ID)
	assert.Len(t, feeds[1].Recipes, 1)
	assert.Equal(t, int64(1), feeds[1].RecipesCount)

	feeds, _, err = f.subscriptions.List(f.reader.ID, 0, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feeds[1].Recipes)

	_, _, err = f.subscriptions.List(f.reader.ID, 0, 10, -1)
	assert.ErrorIs(t, err, &validation.Error{Kind: validation.BelowMinimum})
}
