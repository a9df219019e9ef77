package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/board"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testEmail = "user@example.com"

func jwtManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
	})
}

func bearer(t *testing.T, jm *auth.JWTManager) string {
	t.Helper()
	token, _, err := jm.GenerateAccessToken(2, testEmail, false)
	require.NoError(t, err)
	return "Bearer " + token
}

type fakeCarts struct {
	view       *cart.View
	added      bool
	updated    bool
	checkedOut *checkout.Handoff
	err        error

	gotEmail string
	gotCID   uint
	gotCount int
}

func (f *fakeCarts) GetView(_ context.Context, email string) (*cart.View, error) {
	f.gotEmail = email
	return f.view, f.err
}

func (f *fakeCarts) Add(_ context.Context, email string, req *cart.AddRequest) (bool, error) {
	f.gotEmail = email
	return f.added, f.err
}

func (f *fakeCarts) ToggleSelect(_ context.Context, email string, cid uint) (*cart.View, error) {
	f.gotEmail, f.gotCID = email, cid
	return f.view, f.err
}

func (f *fakeCarts) ToggleSelectAll(_ context.Context, email string) (*cart.View, error) {
	return f.view, f.err
}

func (f *fakeCarts) ChangeQuantity(_ context.Context, email string, cid uint, count int) (*cart.View, bool, error) {
	f.gotCID, f.gotCount = cid, count
	return f.view, f.updated, f.err
}

func (f *fakeCarts) Remove(_ context.Context, email string, cid uint) (*cart.View, error) {
	f.gotCID = cid
	return f.view, f.err
}

func (f *fakeCarts) RemoveAll(_ context.Context, email string) (*cart.View, error) {
	return f.view, f.err
}

func (f *fakeCarts) Checkout(_ context.Context, email string) (*checkout.Handoff, error) {
	return f.checkedOut, f.err
}

func cartRouter(carts CartService, jm *auth.JWTManager) *gin.Engine {
	h := NewCartHandler(carts)
	r := gin.New()
	g := r.Group("/cart", middleware.AuthMiddleware(jm))
	g.GET("", h.GetCart)
	g.POST("", h.AddToCart)
	g.PUT("/items/:cid", h.UpdateQuantity)
	g.POST("/items/:cid/select", h.ToggleSelect)
	g.POST("/checkout", h.Checkout)
	return r
}

func do(r http.Handler, method, path, authHeader, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartHandler(t *testing.T) {
	jm := jwtManager()
	token := bearer(t, jm)
	view := &cart.View{Count: 2, GrandTotal: 3500, GrandTotalLabel: "3,500원"}

	t.Run("get cart without token: error", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{view: view}, jm), http.MethodGet, "/cart", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("get cart: ok", func(t *testing.T) {
		carts := &fakeCarts{view: view}
		w := do(cartRouter(carts, jm), http.MethodGet, "/cart", token, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testEmail, carts.gotEmail)
		assert.Contains(t, w.Body.String(), `"grandTotalLabel":"3,500원"`)
	})

	t.Run("add duplicate option: conflict", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{added: false}, jm), http.MethodPost, "/cart", token, `{"iid":1,"picks":[{"ioid":2,"count":1}]}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("add without iid: error", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{added: true}, jm), http.MethodPost, "/cart", token, `{"picks":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("add: ok", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{added: true}, jm), http.MethodPost, "/cart", token, `{"iid":1,"picks":[{"ioid":2,"count":1}]}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("change quantity: ok", func(t *testing.T) {
		carts := &fakeCarts{view: view, updated: true}
		w := do(cartRouter(carts, jm), http.MethodPut, "/cart/items/12", token, `{"count":3}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(12), carts.gotCID)
		assert.Equal(t, 3, carts.gotCount)
	})

	t.Run("change quantity beyond stock: conflict", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{view: view, updated: false}, jm), http.MethodPut, "/cart/items/12", token, `{"count":99}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"data"`)
	})

	t.Run("bad cid: error", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{view: view}, jm), http.MethodPost, "/cart/items/abc/select", token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown row: not found", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{err: cart.ErrCartItemNotFound}, jm), http.MethodPost, "/cart/items/5/select", token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("checkout with nothing selected: error", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{err: checkout.ErrEmptyHandoff}, jm), http.MethodPost, "/cart/checkout", token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), checkout.ErrEmptyHandoff.Error())
	})

	t.Run("checkout: ok", func(t *testing.T) {
		h := &checkout.Handoff{Token: "tok", TotalPrice: 1500}
		w := do(cartRouter(&fakeCarts{checkedOut: h}, jm), http.MethodPost, "/cart/checkout", token, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"tok"`)
	})

	t.Run("store failure hides details: error", func(t *testing.T) {
		w := do(cartRouter(&fakeCarts{err: errors.New("dial tcp: refused")}, jm), http.MethodGet, "/cart", token, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "refused")
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{item.ErrItemNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: 3", item.ErrOptionNotFound), http.StatusNotFound},
		{checkout.ErrNotOwner, http.StatusForbidden},
		{board.ErrNotOwner, http.StatusForbidden},
		{user.ErrInvalidCredentials, http.StatusUnauthorized},
		{user.ErrEmailTaken, http.StatusConflict},
		{fmt.Errorf("%w: option 4", order.ErrInsufficientStock), http.StatusConflict},
		{board.ErrInvalidStar, http.StatusBadRequest},
		{fmt.Errorf("%w: too short", user.ErrWeakPassword), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

type fakeItems struct {
	ItemService
	quote  *item.Quote
	err    error
	gotReq []item.PickRequest
}

func (f *fakeItems) Quote(_ context.Context, iid uint, reqs []item.PickRequest) (*item.Quote, error) {
	f.gotReq = reqs
	return f.quote, f.err
}

func TestItemHandler_Quote(t *testing.T) {
	items := &fakeItems{quote: &item.Quote{IID: 1, TotalPrice: 48000, TotalLabel: "48,000원"}}
	h := NewItemHandler(items)
	r := gin.New()
	r.POST("/items/:iid/quote", h.Quote)

	w := do(r, http.MethodPost, "/items/1/quote", "", `{"picks":[{"ioid":3,"count":2}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []item.PickRequest{{IOID: 3, Count: 2}}, items.gotReq)
	assert.Contains(t, w.Body.String(), "48,000원")

	w = do(r, http.MethodPost, "/items/1/quote", "", `{"picks":[{"count":2}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	items.err = item.ErrNothingPicked
	w = do(r, http.MethodPost, "/items/1/quote", "", `{"picks":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeOrders struct {
	OrderService
	pdf []byte
	err error
}

func (f *fakeOrders) Receipt(_ context.Context, oid uint, email string) ([]byte, error) {
	return f.pdf, f.err
}

func TestOrderHandler_DownloadReceipt(t *testing.T) {
	jm := jwtManager()
	orders := &fakeOrders{pdf: []byte("%PDF-1.4")}
	h := NewOrderHandler(orders)
	r := gin.New()
	r.GET("/orders/:oid/receipt", middleware.AuthMiddleware(jm), h.DownloadReceipt)

	w := do(r, http.MethodGet, "/orders/9/receipt", bearer(t, jm), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=receipt-9.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())

	orders.err = order.ErrOrderNotFound
	w = do(r, http.MethodGet, "/orders/9/receipt", bearer(t, jm), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
