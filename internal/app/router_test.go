package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	adminHandler "grocer-service/internal/handlers/admin"
	orderHandler "grocer-service/internal/handlers/order"
	subscriptionHandler "grocer-service/internal/handlers/subscription"
	wsHandler "grocer-service/internal/handlers/websocket"
	"grocer-service/internal/metrics"
	"grocer-service/internal/middleware"
	"grocer-service/internal/pkg/jwt"
	"grocer-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	verifier := jwt.NewVerifier("secret", "grocer")
	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	h := &Handlers{
		SubscriptionHandler: subscriptionHandler.NewSubscriptionHandler(nil),
		OrderHandler:        orderHandler.NewOrderHandler(nil),
		AdminHandler:        adminHandler.NewAdminHandler(nil, nil, nil, nil, logger),
		WSHandler:           wsHandler.NewWebSocketHandler(websocket.NewHub(verifier, logger), "", logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(verifier),
	}

	r := gin.New()
	r.Use(middleware.MetricsMiddleware(httpMetrics))
	SetupRouter(r, registry, h)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := get(newTestEngine(), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	r := newTestEngine()
	get(r, "/health")

	w := get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "grocer_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestEngine()

	for _, path := range []string{"/api/subscriptions", "/api/orders", "/api/admin/stats", "/ws"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path).Code, path)
	}
}
