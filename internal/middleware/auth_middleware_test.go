package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

var errRevoked = errors.New("token has been revoked")

// stubAuthenticator validates signatures and rejects ids in revoked.
type stubAuthenticator struct {
	revoked map[string]bool
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, testJWTSecret)
	if err != nil {
		return nil, err
	}
	if s.revoked[claims.ID] {
		return nil, errRevoked
	}
	return claims, nil
}

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware, *stubAuthenticator) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	stub := &stubAuthenticator{revoked: map[string]bool{}}
	return router, NewAuthMiddleware(stub), stub
}

func generateTestToken(t *testing.T, userID uint, expiry time.Duration) (string, *util.Claims) {
	token, claims, err := util.GenerateToken(userID, "cook@example.com", testJWTSecret, expiry)
	require.NoError(t, err)
	return token, claims
}

func perform(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	router, auth, stub := setupMiddlewareTest()
	router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "jti": claims.ID})
	})

	valid, _ := generateTestToken(t, 7, time.Hour)
	expired, _ := generateTestToken(t, 7, -time.Minute)
	revoked, revokedClaims := generateTestToken(t, 7, time.Hour)
	stub.revoked[revokedClaims.ID] = true

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "bearer token", header: "Bearer " + valid, wantCode: http.StatusOK, wantBody: `"user_id":7`},
		{name: "token scheme", header: "Token " + valid, wantCode: http.StatusOK, wantBody: `"user_id":7`},
		{name: "missing header", wantCode: http.StatusUnauthorized, wantBody: "AUTH_UNAUTHORIZED"},
		{name: "bad format", header: "Basic abc def", wantCode: http.StatusUnauthorized, wantBody: "AUTH_TOKEN_INVALID"},
		{name: "garbage token", header: "Bearer garbage", wantCode: http.StatusUnauthorized, wantBody: "AUTH_TOKEN_INVALID"},
		{name: "expired token", header: "Bearer " + expired, wantCode: http.StatusUnauthorized, wantBody: "AUTH_TOKEN_EXPIRED"},
		{name: "revoked token", header: "Bearer " + revoked, wantCode: http.StatusUnauthorized, wantBody: "AUTH_TOKEN_REVOKED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, tt.header)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, auth, _ := setupMiddlewareTest()
	router.GET("/test", auth.OptionalAuthenticate(), func(c *gin.Context) {
		viewer := GetViewerID(c)
		if viewer == nil {
			c.JSON(http.StatusOK, gin.H{"viewer": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"viewer": *viewer})
	})

	valid, _ := generateTestToken(t, 3, time.Hour)

	w := perform(router, "Bearer "+valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"viewer":3}`, w.Body.String())

	for _, header := range []string{"", "Bearer broken", "Nonsense"} {
		w := perform(router, header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"viewer":"anonymous"}`, w.Body.String())
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/test", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := perform(router, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Body.String())
}
