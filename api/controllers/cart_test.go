package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopcircle/backend/api/middleware"
	cartsvc "github.com/shopcircle/backend/internal/cart"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
)

type stubCartService struct {
	cart     *cartsvc.CartDTO
	validate *cartsvc.ValidateResult
	err      error

	lastInput cartsvc.AddItemInput
}

func (s *stubCartService) AddItem(_ context.Context, _ uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	s.lastInput = input
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(context.Context, uuid.UUID, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) GetCart(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Validate(context.Context, uuid.UUID) (*cartsvc.ValidateResult, error) {
	return s.validate, s.err
}

func requestWithRouteParam(req *http.Request, name, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartFetchSuccess(t *testing.T) {
	dto := &cartsvc.CartDTO{
		ID:     uuid.New(),
		Status: enums.CartStatusActive,
		Items:  []cartsvc.ItemDTO{},
	}
	handler := CartFetch(&stubCartService{cart: dto}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != dto.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
}

func TestCartFetchUnauthenticated(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.CartDTO{}}
	handler := CartAddItem(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":2}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product_id, got %d", resp.Code)
	}
}

func TestCartAddItemPassesInputThrough(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.CartDTO{ID: uuid.New()}}
	handler := CartAddItem(stub, nil)

	productID := uuid.New()
	body := `{"product_id":"` + productID.String() + `","quantity":3,"attributes":{"size":"M"}}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.lastInput.ProductID != productID {
		t.Fatalf("expected product id %s, got %s", productID, stub.lastInput.ProductID)
	}
	if stub.lastInput.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", stub.lastInput.Quantity)
	}
	if stub.lastInput.Attributes["size"] != "M" {
		t.Fatalf("expected size attribute to pass through, got %v", stub.lastInput.Attributes)
	}
}

func TestCartRemoveItemPropagatesNotFound(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")}
	handler := CartRemoveItem(stub, nil)

	req := requestWithRouteParam(
		authedRequest(http.MethodDelete, "/api/v1/cart/items/"+uuid.NewString(), ""),
		"itemId", uuid.NewString(),
	)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
