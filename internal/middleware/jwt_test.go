package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(UserIDKey), "name": c.GetString(UserNameKey)})
	})
	return r
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	token, err := IssueToken(secret, "u1", "Ada", time.Hour)
	require.NoError(t, err)

	w := get(newRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1","name":"Ada"}`, w.Body.String())
}

func TestJWTAuthRejects(t *testing.T) {
	wrongSecret, err := IssueToken("other", "u1", "", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(secret, "u1", "", -time.Minute)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Token abc",
		"garbage":      "Bearer abc",
		"wrong secret": "Bearer " + wrongSecret,
		"expired":      "Bearer " + expired,
		"alg none":     "Bearer " + none,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(newRouter(), header).Code)
		})
	}
}
