// Package validation holds the pure domain rules checked before any write.
// Every rule returns nil or a *Error describing the first violation found.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	InvalidFormat    Kind = "invalid_format"
	BelowMinimum     Kind = "below_minimum"
	Empty            Kind = "empty"
	Duplicate        Kind = "duplicate"
	UnknownReference Kind = "unknown_reference"
	InvalidAmount    Kind = "invalid_amount"
	SelfReference    Kind = "self_reference"
	AlreadyExists    Kind = "already_exists"
	LimitExceeded    Kind = "limit_exceeded"
)

// Error is a rejected input. IDs lists offending identifiers when the rule
// is about references, sorted ascending.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	IDs     []uint
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is matches any *Error with the same Kind, so callers can write
// errors.Is(err, &validation.Error{Kind: validation.Duplicate}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

func newError(kind Kind, field, msg string, ids ...uint) *Error {
	return &Error{Kind: kind, Field: field, Message: msg, IDs: ids}
}

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}.@+\-_]+$`)

// Username accepts letters, digits and the characters . @ + - _
func Username(value string) error {
	if !usernamePattern.MatchString(value) {
		return newError(InvalidFormat, "username",
			"username may only contain letters, digits and the characters . @ + - _")
	}
	return nil
}

func CookingTime(minutes, min int) error {
	if minutes < min {
		return newError(BelowMinimum, "cooking_time",
			fmt.Sprintf("cooking time must be at least %d minute(s)", min))
	}
	return nil
}

// Tags requires at least one tag and no repeats.
func Tags(ids []uint) error {
	if len(ids) == 0 {
		return newError(Empty, "tags", "at least one tag is required")
	}
	if dups := duplicates(ids); len(dups) > 0 {
		return newError(Duplicate, "tags", "tags must not repeat", dups...)
	}
	return nil
}

// TagReferences reports every requested tag id that is not in known.
func TagReferences(ids []uint, known map[uint]struct{}) error {
	if missing := missingIDs(ids, known); len(missing) > 0 {
		return newError(UnknownReference, "tags",
			fmt.Sprintf("tags with id %s do not exist", joinIDs(missing)), missing...)
	}
	return nil
}

// IngredientAmount is one requested (ingredient, amount) pair.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// Ingredients checks, in order: non-empty, every id exists in catalog, no
// repeated id, every amount at least minAmount.
func Ingredients(items []IngredientAmount, catalog map[uint]struct{}, minAmount int) error {
	if len(items) == 0 {
		return newError(Empty, "ingredients", "at least one ingredient is required")
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if missing := missingIDs(ids, catalog); len(missing) > 0 {
		return newError(UnknownReference, "ingredients",
			fmt.Sprintf("ingredients with id %s do not exist", joinIDs(missing)), missing...)
	}

	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return newError(Duplicate, "ingredients", "ingredients must not repeat", item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Amount < minAmount {
			return newError(InvalidAmount, "ingredients",
				fmt.Sprintf("ingredient amount must be at least %d", minAmount), item.ID)
		}
	}
	return nil
}

// Image rejects a missing or blank image payload.
func Image(value string) error {
	if strings.TrimSpace(value) == "" {
		return newError(Empty, "image", "this field may not be blank")
	}
	return nil
}

// Subscription checks a follow request. exists reports whether the pair is
// already stored; recipesLimit is the preview size asked for.
func Subscription(subscriberID, authorID uint, exists bool, recipesLimit, maxLimit int) error {
	if subscriberID == authorID {
		return newError(SelfReference, "author", "you cannot subscribe to yourself")
	}
	if exists {
		return newError(AlreadyExists, "author", "already subscribed to this user")
	}
	return RecipesLimit(recipesLimit, maxLimit)
}

// RecipesLimit bounds the number of recipes previewed per author.
func RecipesLimit(limit, maxLimit int) error {
	if limit < 0 {
		return newError(BelowMinimum, "recipes_limit", "recipes_limit must not be negative")
	}
	if limit > maxLimit {
		return newError(LimitExceeded, "recipes_limit",
			fmt.Sprintf("recipes_limit must not exceed %d", maxLimit))
	}
	return nil
}

func missingIDs(ids []uint, known map[uint]struct{}) []uint {
	set := make(map[uint]struct{})
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			set[id] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func duplicates(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	dups := make(map[uint]struct{})
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			dups[id] = struct{}{}
		}
		seen[id] = struct{}{}
	}
	return sortedKeys(dups)
}

func sortedKeys(set map[uint]struct{}) []uint {
	if len(set) == 0 {
		return nil
	}
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
