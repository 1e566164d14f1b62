package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from the code.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email or password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED" // logged out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // only the recipe author may change it

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationBelowMinimum  = "VALIDATION_BELOW_MINIMUM"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationDuplicate     = "VALIDATION_DUPLICATE"
	ValidationUnknownRef    = "VALIDATION_UNKNOWN_REFERENCE"
	ValidationInvalidAmount = "VALIDATION_INVALID_AMOUNT"
	ValidationSelfReference = "VALIDATION_SELF_REFERENCE"
	ValidationLimitExceeded = "VALIDATION_LIMIT_EXCEEDED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Recipes (RECIPE_) ====================
	RecipeNotFound     = "RECIPE_NOT_FOUND"
	UserNotFound       = "USER_NOT_FOUND"
	TagNotFound        = "TAG_NOT_FOUND"
	IngredientNotFound = "INGREDIENT_NOT_FOUND"
	AvatarNotFound     = "AVATAR_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API"
)
