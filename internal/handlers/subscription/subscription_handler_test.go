package subscription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/middleware"
	xerrors "grocer-service/internal/pkg/errors"
	"grocer-service/internal/pkg/jwt"
	service "grocer-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	created   *subscription.CreateSubscriptionRequest
	lastActor service.Actor
	updateErr error
}

func (f *fakeService) List(_ context.Context, userID string) ([]subscription.SubscriptionDetail, error) {
	return []subscription.SubscriptionDetail{{Subscription: subscription.Subscription{ID: "s1", UserID: userID}}}, nil
}

func (f *fakeService) Create(_ context.Context, userID string, req *subscription.CreateSubscriptionRequest) (*subscription.Subscription, error) {
	f.created = req
	return &subscription.Subscription{ID: "s2", UserID: userID, ProductID: req.ProductID}, nil
}

func (f *fakeService) Update(_ context.Context, actor service.Actor, id string, _ *subscription.UpdateSubscriptionRequest) (*subscription.Subscription, error) {
	f.lastActor = actor
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &subscription.Subscription{ID: id}, nil
}

func (f *fakeService) Delete(_ context.Context, actor service.Actor, _ string) error {
	f.lastActor = actor
	return xerrors.ErrNotFound
}

func setup(t *testing.T) (*gin.Engine, *fakeService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &fakeService{}
	h := NewSubscriptionHandler(svc)
	auth := middleware.NewAuthMiddleware(jwt.NewVerifier("secret", "grocer"))

	r := gin.New()
	g := r.Group("/api/subscriptions", auth.Auth())
	g.GET("", h.ListSubscriptions)
	g.POST("", h.CreateSubscription)
	g.PUT("/:id", h.UpdateSubscription)
	g.DELETE("/:id", h.DeleteSubscription)

	token, _, err := jwt.NewGenerator("secret", "grocer", time.Hour).Generate("alice", "Alice", "user")
	require.NoError(t, err)
	return r, svc, token
}

func call(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListSubscriptions(t *testing.T) {
	r, _, token := setup(t)

	w := call(r, http.MethodGet, "/api/subscriptions", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"alice"`)
}

func TestCreateSubscriptionValidatesBody(t *testing.T) {
	r, svc, token := setup(t)

	w := call(r, http.MethodPost, "/api/subscriptions", token, `{"product_id":"p1","quantity":0,"interval":7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)

	w = call(r, http.MethodPost, "/api/subscriptions", token, `{"product_id":"p1","quantity":2,"interval":7}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, 2, svc.created.Quantity)
}

func TestUpdateSubscriptionPassesActor(t *testing.T) {
	r, svc, token := setup(t)

	w := call(r, http.MethodPut, "/api/subscriptions/s1", token, `{"status":"paused"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.Actor{UserID: "alice", Role: "user"}, svc.lastActor)

	svc.updateErr = xerrors.ErrForbidden
	w = call(r, http.MethodPut, "/api/subscriptions/s1", token, `{"status":"paused"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteSubscriptionMapsNotFound(t *testing.T) {
	r, _, token := setup(t)

	w := call(r, http.MethodDelete, "/api/subscriptions/missing", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
