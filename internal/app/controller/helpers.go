package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/validator/v10"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/app/validation"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/pkg/util"
)

// validatable is a request with ozzo-validation rules.
type validatable interface {
	Validate() error
}

// bindJSON binds and validates the request body. On failure it writes a 400
// with one message per offending field and returns false.
func bindJSON(c *gin.Context, req validatable) bool {
	log := middleware.GetLoggerFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		log.Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = "failed on the '" + fe.Tag() + "' rule"
			}
			apperrors.RespondWithValidationError(c, fields)
			return false
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Malformed request body")
		return false
	}

	if err := req.Validate(); err != nil {
		log.Warn("Request validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		var oerrs ozzo.Errors
		if errors.As(err, &oerrs) {
			fields := make(map[string]string, len(oerrs))
			for field, ferr := range oerrs {
				fields[field] = ferr.Error()
			}
			apperrors.RespondWithValidationError(c, fields)
			return false
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return false
	}
	return true
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": c.Param(name),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// requireUserID returns the authenticated user. Routes using it sit behind
// AuthMiddleware.Authenticate, so a miss is a wiring mistake answered with 401.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return userID, ok
}

// pageRequest is the parsed page/limit pair of a paginated listing.
type pageRequest struct {
	Page  int
	Limit int
}

func (p pageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePage reads "page" (1-based) and "limit" (defaulting to the configured
// page size and capped at the maximum). A malformed page is a 404, as is a
// page past the end (see writePage).
func parsePage(c *gin.Context, cfg config.RecipeConfig) (pageRequest, bool) {
	p := pageRequest{Page: 1, Limit: cfg.PageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Invalid page")
			return p, false
		}
		p.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if p.Limit > cfg.MaxPageSize {
		p.Limit = cfg.MaxPageSize
	}
	return p, true
}

// writePage writes the page envelope, or 404 for a page past the last one.
func writePage[T any](c *gin.Context, p pageRequest, results []T, count int64) {
	if p.Page > 1 && int64(p.Offset()) >= count {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Invalid page")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(results, count, p.Page, p.Limit, requestURL(c)))
}

// requestURL rebuilds the absolute URL the client used.
func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = requestScheme(c)
	u.Host = c.Request.Host
	return &u
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

var validationCodes = map[validation.Kind]string{
	validation.InvalidFormat:    apperrors.ValidationInvalidFormat,
	validation.BelowMinimum:     apperrors.ValidationBelowMinimum,
	validation.Empty:            apperrors.ValidationRequired,
	validation.Duplicate:        apperrors.ValidationDuplicate,
	validation.UnknownReference: apperrors.ValidationUnknownRef,
	validation.InvalidAmount:    apperrors.ValidationInvalidAmount,
	validation.SelfReference:    apperrors.ValidationSelfReference,
	validation.AlreadyExists:    apperrors.ResourceAlreadyExists,
	validation.LimitExceeded:    apperrors.ValidationLimitExceeded,
}

// uploadCodes override validationCodes for image payloads.
var uploadCodes = map[validation.Kind]string{
	validation.InvalidFormat: apperrors.UploadInvalidFileType,
	validation.LimitExceeded: apperrors.UploadFileTooLarge,
}

// respondError maps a service error to its HTTP response. context names the
// operation for the log line and for unexpected apperrors.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *validation.Error
	if errors.As(err, &verr) {
		log.Warn("Validation failed: "+context, map[string]interface{}{
			"field": verr.Field,
			"kind":  string(verr.Kind),
			"ids":   verr.IDs,
		})
		code, ok := validationCodes[verr.Kind]
		if !ok {
			code = apperrors.ValidationInvalidInput
		}
		if verr.Field == "image" || verr.Field == "avatar" {
			if upload, ok := uploadCodes[verr.Kind]; ok {
				code = upload
			}
		}
		apperrors.RespondWithFieldError(c, code, verr.Field, verr.Message, verr.IDs)
		return
	}

	status, code, field := http.StatusInternalServerError, "", ""
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		status, code = http.StatusNotFound, apperrors.RecipeNotFound
	case errors.Is(err, service.ErrUserNotFound):
		status, code = http.StatusNotFound, apperrors.UserNotFound
	case errors.Is(err, service.ErrTagNotFound):
		status, code = http.StatusNotFound, apperrors.TagNotFound
	case errors.Is(err, service.ErrIngredientNotFound):
		status, code = http.StatusNotFound, apperrors.IngredientNotFound
	case errors.Is(err, service.ErrAvatarNotFound):
		status, code = http.StatusNotFound, apperrors.AvatarNotFound
	case errors.Is(err, service.ErrNotRecipeAuthor):
		status, code = http.StatusForbidden, apperrors.AuthzOwnerOnly
	case errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrAlreadyInCart):
		status, code = http.StatusBadRequest, apperrors.ResourceAlreadyExists
	case errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrNotSubscribed):
		status, code = http.StatusBadRequest, apperrors.ResourceNotFound
	case errors.Is(err, service.ErrEmailAlreadyExists):
		status, code, field = http.StatusBadRequest, apperrors.AuthEmailAlreadyExists, "email"
	case errors.Is(err, service.ErrUsernameAlreadyExists):
		status, code, field = http.StatusBadRequest, apperrors.AuthUsernameExists, "username"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, code = http.StatusBadRequest, apperrors.AuthInvalidCredentials
	case errors.Is(err, service.ErrWrongPassword):
		status, code, field = http.StatusBadRequest, apperrors.AuthInvalidCredentials, "current_password"
	case errors.Is(err, util.ErrPasswordTooShort),
		errors.Is(err, util.ErrPasswordTooLong),
		errors.Is(err, util.ErrPasswordNumeric),
		errors.Is(err, util.ErrPasswordLikeUser):
		status, code, field = http.StatusBadRequest, apperrors.AuthWeakPassword, "password"
	}

	if status == http.StatusInternalServerError {
		log.Error("Failed to "+context, err, nil)
		apperrors.ParseAndRespond(c, status, err, context)
		return
	}

	log.Warn("Request rejected: "+context, map[string]interface{}{
		"status": status,
		"error":  err.Error(),
	})
	if field != "" {
		c.JSON(status, apperrors.ErrorResponse{Error: code, Message: err.Error(), Field: field})
		return
	}
	apperrors.RespondWithError(c, status, code, err.Error())
}
