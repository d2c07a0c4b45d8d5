package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocer-service/internal/domain/user"
	"grocer-service/internal/metrics"
	"grocer-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(auth *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/me", auth.Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": MustGetUserID(c), "admin": IsAdmin(c)})
	})
	r.GET("/admin", append(auth.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})...)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := jwt.NewGenerator("secret", "grocer", time.Hour).Generate("alice", "Alice", role)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newRouter(NewAuthMiddleware(jwt.NewVerifier("secret", "grocer")))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	w := do(r, "/me", token(t, "user"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"alice"`)

	// token in query string is accepted
	w = do(r, "/me?token="+token(t, "user"), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnly(t *testing.T) {
	r := newRouter(NewAuthMiddleware(jwt.NewVerifier("secret", "grocer")))

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", token(t, "user")).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", token(t, "admin")).Code)
}

func TestMissingTokenAndMissingRole(t *testing.T) {
	r := newRouter(NewAuthMiddleware(jwt.NewVerifier("secret", "grocer")))

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization token")

	// RequireRole without Auth in front has no role to check
	bare := gin.New()
	bare.GET("/x", NewAuthMiddleware(jwt.NewVerifier("secret", "grocer")).RequireRole(user.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w = do(bare, "/x", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "no role found")
}

func TestRecovery(t *testing.T) {
	r := newRouter(NewAuthMiddleware(jwt.NewVerifier("secret", "grocer")))
	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("http://localhost:5173"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	m := metrics.NewHTTPMetrics(prometheus.NewRegistry())
	r := gin.New()
	r.Use(LoggingMiddleware(zap.NewNop()), MetricsMiddleware(m))
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, "/orders/1", "")
	do(r, "/orders/2", "")
	do(r, "/missing", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/orders/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "unmatched", "404")))
}
