package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nexus_game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": c.GetString(SessionIDKey)})
	})
	r.POST("/move", JWT(), GameRateLimit(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWT_AcceptsBearerToken(t *testing.T) {
	service.InitJWT("mw-secret")
	token, err := service.GenerateJWT("sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session_id":"sess-1"}`, w.Body.String())
}

func TestJWT_RejectsMissingOrBadToken(t *testing.T) {
	service.InitJWT("mw-secret")
	r := protectedRouter()

	for _, header := range []string{"", "Bearer ", "Token abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestGameRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	service.InitJWT("mw-secret")
	CloseRedis()
	token, err := service.GenerateJWT("sess-2")
	require.NoError(t, err)
	r := protectedRouter()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/move", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
