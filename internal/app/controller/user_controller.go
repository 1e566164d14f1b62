package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type UserController struct {
	userService         service.UserService
	subscriptionService service.SubscriptionService
	cfg                 config.RecipeConfig
}

func NewUserController(
	userService service.UserService,
	subscriptionService service.SubscriptionService,
	cfg config.RecipeConfig,
) *UserController {
	return &UserController{
		userService:         userService,
		subscriptionService: subscriptionService,
		cfg:                 cfg,
	}
}

// ListUsers
// GET /api/users/?page=&limit=
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, ok := parsePage(c, ctrl.cfg)
	if !ok {
		return
	}

	users, followed, total, err := ctrl.userService.List(middleware.GetViewerID(c), page.Offset(), page.Limit)
	if err != nil {
		respondError(c, err, "list users")
		return
	}

	results := make([]dto.UserRead, len(users))
	for i := range users {
		results[i] = dto.NewUserRead(&users[i], followed[users[i].ID])
	}
	writePage(c, page, results, total)
}

// Register creates an account
// POST /api/users/
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.userService.Register(req)
	if err != nil {
		respondError(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, dto.NewUserCreated(user))
}

// GetUser returns a profile with the viewer's subscription state
// GET /api/users/:id/
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, subscribed, err := ctrl.userService.GetProfile(middleware.GetViewerID(c), id)
	if err != nil {
		respondError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRead(user, subscribed))
}

// GetMe
// GET /api/users/me/
func (ctrl *UserController) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.GetByID(userID)
	if err != nil {
		respondError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRead(user, false))
}

// SetPassword
// POST /api/users/set_password/
func (ctrl *UserController) SetPassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.userService.SetPassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "set password")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAvatar uploads a base64 avatar
// PUT /api/users/me/avatar/
func (ctrl *UserController) SetAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err, "set avatar")
		return
	}
	c.JSON(http.StatusOK, dto.AvatarRead{Avatar: user.Avatar})
}

// DeleteAvatar
// DELETE /api/users/me/avatar/
func (ctrl *UserController) DeleteAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err, "delete avatar")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseRecipesLimit reads ?recipes_limit=, defaulting to the configured
// preview size. Range checks are left to the service.
func (ctrl *UserController) parseRecipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return ctrl.cfg.RecipesLimitDefault, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		apperrors.RespondWithFieldError(c, apperrors.ValidationInvalidFormat, "recipes_limit",
			"recipes_limit must be an integer", nil)
		return 0, false
	}
	return limit, true
}

// Subscriptions lists the authors the current user follows
// GET /api/users/subscriptions/?page=&limit=&recipes_limit=
func (ctrl *UserController) Subscriptions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, ctrl.cfg)
	if !ok {
		return
	}
	recipesLimit, ok := ctrl.parseRecipesLimit(c)
	if !ok {
		return
	}

	feeds, total, err := ctrl.subscriptionService.List(userID, page.Offset(), page.Limit, recipesLimit)
	if err != nil {
		respondError(c, err, "list subscriptions")
		return
	}

	results := make([]dto.SubscriptionRead, len(feeds))
	for i := range feeds {
		results[i] = dto.NewSubscriptionRead(&feeds[i].Author, feeds[i].Recipes, feeds[i].RecipesCount)
	}
	writePage(c, page, results, total)
}

// Subscribe
// POST /api/users/:id/subscribe/?recipes_limit=
func (ctrl *UserController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := ctrl.parseRecipesLimit(c)
	if !ok {
		return
	}

	feed, err := ctrl.subscriptionService.Subscribe(userID, authorID, recipesLimit)
	if err != nil {
		respondError(c, err, "subscribe")
		return
	}

	log.Info("Subscribed", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	c.JSON(http.StatusCreated, dto.NewSubscriptionRead(&feed.Author, feed.Recipes, feed.RecipesCount))
}

// Unsubscribe
// DELETE /api/users/:id/subscribe/
func (ctrl *UserController) Unsubscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(userID, authorID); err != nil {
		respondError(c, err, "unsubscribe")
		return
	}
	c.Status(http.StatusNoContent)
}
