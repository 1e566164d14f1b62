package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	hash, err := util.HashPassword("correct-horse-1")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(&model.User{
		Email:        "chef@example.com",
		Username:     "chef",
		FirstName:    "Julia",
		LastName:     "Child",
		PasswordHash: hash,
	}))

	authService := service.NewAuthService(userRepo, nil, "test-secret", time.Hour)
	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	router.POST("/login", ctrl.Login)
	router.POST("/logout", authMiddleware.Authenticate(), ctrl.Logout)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}, token string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Login_Success(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", dto.LoginRequest{
		Email:    "chef@example.com",
		Password: "correct-horse-1",
	}, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AuthToken)
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", dto.LoginRequest{
		Email:    "chef@example.com",
		Password: "wrong",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", response["error"])
}

func TestAuthController_Login_MissingFields(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", map[string]string{"email": "chef@example.com"}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
	assert.Contains(t, response["fields"], "Password")
}

func TestAuthController_Login_MalformedBody(t *testing.T) {
	router := setupAuthControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Logout(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", dto.LoginRequest{
		Email:    "chef@example.com",
		Password: "correct-horse-1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var token dto.TokenRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	w = postJSON(router, "/logout", nil, token.AuthToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = postJSON(router, "/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
