package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Authenticate(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, UserEmail(c))
	})
	return r
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	token, err := IssueToken(testSecret, "ana@example.com", "Ana", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", w.Body.String())
}

func TestAuthenticateRejects(t *testing.T) {
	expired, err := IssueToken(testSecret, "ana@example.com", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", "ana@example.com", "", time.Hour)
	require.NoError(t, err)
	noEmail, err := IssueToken(testSecret, "", "", time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"expired":        "Bearer " + expired,
		"bad signature":  "Bearer " + foreign,
		"no email":       "Bearer " + noEmail,
		"garbage":        "Bearer not-a-token",
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
