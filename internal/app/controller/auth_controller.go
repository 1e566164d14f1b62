package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login exchanges credentials for a token
// POST /api/auth/token/login/
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "log in")
		return
	}

	log.Info("Token issued", map[string]interface{}{
		"email": req.Email,
	})
	c.JSON(http.StatusOK, dto.TokenRead{AuthToken: token})
}

// Logout revokes the token the request was made with
// POST /api/auth/token/logout/
func (ctrl *AuthController) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "log out")
		return
	}
	c.Status(http.StatusNoContent)
}
