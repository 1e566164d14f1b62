package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the client-facing code and message for an error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or driver error into a client-safe code and
// message. context names the operation, e.g. "create recipe".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. gorm sentinels
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStr)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return parseForeignKeyError(errStr)
	}

	// 2. raw driver messages (postgres and sqlite wording)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Invalid input",
		}
	}

	// 3. network
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable, please retry later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "A user with this email already exists"}
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "A user with this username already exists"}
	case strings.Contains(errLower, "favorites"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Recipe is already in favorites"}
	case strings.Contains(errLower, "shopping_cart"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Recipe is already in the shopping cart"}
	case strings.Contains(errLower, "subscriptions"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Already subscribed to this author"}
	case strings.Contains(errLower, "recipe_ingredients"):
		return ErrorInfo{Code: ValidationDuplicate, Message: "Ingredients must not repeat"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Resource already exists",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "still referenced"):
		return ErrorInfo{Code: ResourceConflict, Message: "Resource is still referenced and cannot be deleted"}
	case strings.Contains(errLower, "ingredient"):
		return ErrorInfo{Code: IngredientNotFound, Message: "Ingredient does not exist"}
	case strings.Contains(errLower, "tag"):
		return ErrorInfo{Code: TagNotFound, Message: "Tag does not exist"}
	case strings.Contains(errLower, "recipe"):
		return ErrorInfo{Code: RecipeNotFound, Message: "Recipe does not exist"}
	case strings.Contains(errLower, "user") || strings.Contains(errLower, "author"):
		return ErrorInfo{Code: UserNotFound, Message: "User does not exist"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Referenced resource not found",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found"
	case strings.Contains(contextLower, "ingredient"):
		return "Ingredient not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "author"):
		return "User not found"
	}
	return "Not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create, please retry later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update, please retry later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete, please retry later"
	}
	return "Internal server error, please retry later"
}

// ParseAndRespond writes the parsed error with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
