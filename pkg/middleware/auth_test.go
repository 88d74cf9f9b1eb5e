package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-ops-dashboard/backend/pkg/jwt"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(t *testing.T, svc *jwt.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})

	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(svc, log), func(c *gin.Context) {
		userID, _ := c.Get("userId")
		role, _ := c.Get("userRole")
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
	})
	return r
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	svc := jwt.NewService("test-secret", time.Hour)
	r := authTestRouter(t, svc)

	token, err := svc.GenerateToken(7, "agent@example.com", "agent")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
	assert.Contains(t, w.Body.String(), `"role":"agent"`)
}

func TestJWTAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := authTestRouter(t, jwt.NewService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	r := authTestRouter(t, jwt.NewService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsForgedToken(t *testing.T) {
	r := authTestRouter(t, jwt.NewService("test-secret", time.Hour))

	forged, err := jwt.NewService("other-secret", time.Hour).GenerateToken(7, "x@y.z", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
