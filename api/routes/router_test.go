package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shopcircle/backend/internal/checkout"
	pkgauth "github.com/shopcircle/backend/pkg/auth"
	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/enums"
)

type memRedis struct {
	data map[string]string
}

func newMemRedis() *memRedis {
	return &memRedis{data: make(map[string]string)}
}

func (m *memRedis) Ping(context.Context) error { return nil }

func (m *memRedis) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (m *memRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	m.data[key] = str
	return true, nil
}

func (m *memRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memRedis) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("test:idempotency:%s:%s", scope, id)
}

func (m *memRedis) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	return 1, nil
}

func (m *memRedis) RateLimitKey(scope string) string {
	return "test:rate_limit:" + scope
}

type liveSessions struct{}

func (liveSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubCheckoutService struct {
	submits int
	result  *checkout.SubmitResult
}

func (s *stubCheckoutService) Quote(context.Context, uuid.UUID, checkout.SubmitInput) (*checkout.Quote, error) {
	return &checkout.Quote{}, nil
}

func (s *stubCheckoutService) Submit(context.Context, uuid.UUID, checkout.SubmitInput) (*checkout.SubmitResult, error) {
	s.submits++
	return s.result, nil
}

func routerTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "shopcircle-test",
			ExpirationMinutes: 15,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginEmailLimit:    5,
			LoginIPLimit:       20,
			RegisterWindow:     5 * time.Minute,
			RegisterEmailLimit: 3,
			RegisterIPLimit:    20,
		},
		Checkout: config.CheckoutConfig{IdempotencyTTL: time.Hour},
	}
}

func mintTestToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "shopper@example.com",
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

const checkoutBody = `{
	"shipping_address": {
		"name": "Dana Shopper",
		"phone": "555-0100",
		"line1": "1 Main St",
		"city": "Springfield",
		"state": "IL",
		"postal_code": "62704",
		"country": "US"
	},
	"shipping_method": "standard",
	"payment_method": "card"
}`

// Exercises idempotency through the real router. The middleware mounts at the
// /api/v1 group, where chi has not resolved the final route yet, so this
// guards the end-to-end wiring rather than the middleware in isolation.
func TestRouterCheckoutIdempotency(t *testing.T) {
	cfg := routerTestConfig()
	store := newMemRedis()
	svc := &stubCheckoutService{result: &checkout.SubmitResult{
		OrderID:       uuid.New(),
		OrderNumber:   "SC-20260828-ABCD1234",
		PointsAwarded: 12,
	}}

	router := NewRouter(Deps{
		Config:          cfg,
		Redis:           store,
		Session:         liveSessions{},
		CheckoutService: svc,
	})
	token := mintTestToken(t, cfg)

	// Without an Idempotency-Key the submission must be rejected before the
	// handler runs.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.submits != 0 {
		t.Fatalf("submit ran %d times without an idempotency key", svc.submits)
	}

	// First keyed submission places the order and stores the response.
	first := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	first.Header.Set("Authorization", "Bearer "+token)
	first.Header.Set("Content-Type", "application/json")
	first.Header.Set("Idempotency-Key", "order-once")
	firstResp := httptest.NewRecorder()
	router.ServeHTTP(firstResp, first)

	if firstResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first submission, got %d: %s", firstResp.Code, firstResp.Body.String())
	}
	if svc.submits != 1 {
		t.Fatalf("expected one submission, got %d", svc.submits)
	}
	if len(store.data) != 1 {
		t.Fatalf("expected one stored idempotency record, got %d", len(store.data))
	}

	// The replay returns the stored response without touching the service.
	replay := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	replay.Header.Set("Authorization", "Bearer "+token)
	replay.Header.Set("Content-Type", "application/json")
	replay.Header.Set("Idempotency-Key", "order-once")
	replayResp := httptest.NewRecorder()
	router.ServeHTTP(replayResp, replay)

	if replayResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 on replay, got %d: %s", replayResp.Code, replayResp.Body.String())
	}
	if svc.submits != 1 {
		t.Fatalf("replay reached the service, submissions: %d", svc.submits)
	}
	if replayResp.Body.String() != firstResp.Body.String() {
		t.Fatalf("replay body differs:\nfirst: %s\nreplay: %s", firstResp.Body.String(), replayResp.Body.String())
	}

	var payload struct {
		Data struct {
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}
	if err := json.Unmarshal(replayResp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse replay body: %v", err)
	}
	if payload.Data.OrderNumber != "SC-20260828-ABCD1234" {
		t.Fatalf("unexpected order number %q", payload.Data.OrderNumber)
	}
}

func TestRouterOrderCancelRequiresIdempotencyKey(t *testing.T) {
	cfg := routerTestConfig()
	router := NewRouter(Deps{
		Config:  cfg,
		Redis:   newMemRedis(),
		Session: liveSessions{},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/cancel", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key, got %d: %s", resp.Code, resp.Body.String())
	}
}
