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

	"github.com/Conceptual-Machines/loopgen-api/internal/config"
)

const testSecret = "test-secret"

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": email, "role": role, "request_id": c.GetString("request_id")})
	})
	r.GET("/panic", func(_ *gin.Context) { panic("boom") })
	return r
}

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func get(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newRouter(JWTAuth(testSecret))
	valid := signed(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
		Email: "dev@example.com",
		Role:  "beta",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := signed(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
	})
	noSubject := signed(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{Email: "x@example.com"})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/whoami", map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"id":"user-42"`)
				assert.Contains(t, w.Body.String(), `"role":"beta"`)
			}
		})
	}
}

func TestJWTAuth_NoSecret(t *testing.T) {
	r := newRouter(JWTAuth(""))
	token := signed(t, jwt.SigningMethodHS256, []byte("anything"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})

	w := get(r, "/whoami", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGatewayAuth(t *testing.T) {
	r := newRouter(GatewayAuth())

	w := get(r, "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "X-User-ID")

	w = get(r, "/whoami", map[string]string{"X-User-ID": "7", "X-User-Email": "seven@example.com", "X-User-Role": "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"7"`)
	assert.Contains(t, w.Body.String(), `"email":"seven@example.com"`)
}

func TestNoAuth(t *testing.T) {
	w := get(newRouter(NoAuth()), "/whoami", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"anonymous"`)
}

func TestAuth_SelectsMode(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(newRouter(Auth(&config.Config{AuthMode: "none"})), "/whoami", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(Auth(&config.Config{AuthMode: "gateway"})), "/whoami", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(Auth(&config.Config{AuthMode: "jwt", JWTSecret: testSecret})), "/whoami", nil).Code)
}

func TestRequestTracking(t *testing.T) {
	w := get(newRouter(RequestTracking(nil, nil), NoAuth()), "/whoami", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, w.Body.String(), requestID)
}

func TestRecoverWithSentry(t *testing.T) {
	w := get(newRouter(RecoverWithSentry(), RequestTracking(nil, nil)), "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS())

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, "/whoami", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
