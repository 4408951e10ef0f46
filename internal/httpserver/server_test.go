package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/events"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) (*echo.Echo, *repo.GormRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	r := repo.New(db)

	pub := events.Nop{}
	auth := &service.AuthService{Repo: r, JWTSecret: testSecret, RefreshSecret: []byte("test-refresh")}
	users := &service.UserService{Repo: r}

	e := echo.New()
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: auth, Users: users},
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Pub: pub}},
		Cart:      &CartHTTP{Svc: &service.CartService{Repo: r}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r, Pub: pub}, Checkout: &service.CheckoutService{Repo: r, Pub: pub}},
		Pix:       &PixHTTP{Svc: &service.PixService{Repo: r}},
		Users:     &UserHTTP{Svc: users},
		Reports:   &ReportHTTP{Svc: &service.ReportService{Repo: r}},
		JWTSecret: testSecret,
	})
	return e, r
}

func seedCatalog(t *testing.T, r *repo.GormRepo) *models.Product {
	t.Helper()
	cantina := &models.Cantina{Name: "cantina principal"}
	require.NoError(t, r.DB.Create(cantina).Error)
	require.NoError(t, r.SetCurrentCantina(context.Background(), cantina.ID))
	p := &models.Product{Name: "coxinha", Price: 5.00, Stock: 10, Active: true}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}

func do(e *echo.Echo, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// login registers when needed and returns the session cookies, optionally
// bumping the account to the wanted role first.
func login(t *testing.T, e *echo.Echo, r *repo.GormRepo, email, role string) []*http.Cookie {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/auth/register", transport.RegisterRequest{
		Name: "user", Email: email, Password: "segredo1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	if role != service.RoleCustomer {
		require.NoError(t, r.DB.Model(&models.User{}).Where("email = ?", email).Update("role", role).Error)
	}
	rec = do(e, http.MethodPost, "/api/auth/login", transport.LoginRequest{Email: email, Password: "segredo1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func TestGuestCheckoutEndpoint(t *testing.T) {
	e, r := newTestServer(t)
	p := seedCatalog(t, r)

	rec := do(e, http.MethodPost, "/api/checkout", transport.CheckoutRequest{
		ClientName:     "Maria Silva",
		ClientWhatsApp: "(11) 99999-8888",
		PaymentMethod:  models.PaymentCash,
		Items:          []transport.CartLine{{ProductID: p.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res transport.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, models.StatusPendente, res.Order.Status)
	require.InDelta(t, 10.00, res.Order.Total, 1e-9)
	require.Contains(t, res.WhatsAppLink, "https://wa.me/5511999998888")

	// the receipt is retrievable by id plus whatsapp number
	rec = do(e, http.MethodGet, fmt.Sprintf("/api/orders/guest?order_id=%d&whatsapp=11999998888", res.Order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/orders/guest?order_id=%d&whatsapp=11000000000", res.Order.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutInsufficientStockReturns409(t *testing.T) {
	e, r := newTestServer(t)
	p := seedCatalog(t, r)

	rec := do(e, http.MethodPost, "/api/checkout", transport.CheckoutRequest{
		ClientName:     "Maria Silva",
		ClientWhatsApp: "11999998888",
		PaymentMethod:  models.PaymentCash,
		Items:          []transport.CartLine{{ProductID: p.ID, Quantity: 99}},
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestCartFlowOverHTTP(t *testing.T) {
	e, r := newTestServer(t)
	p := seedCatalog(t, r)
	cookies := login(t, e, r, "maria@example.com", service.RoleCustomer)

	// anonymous cart access is rejected
	rec := do(e, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/cart", transport.AddToCartRequest{ProductID: p.ID, Quantity: 2}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/cart", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart transport.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.InDelta(t, 10.00, cart.Total, 1e-9)

	// checkout without explicit items drains the stored cart
	rec = do(e, http.MethodPost, "/api/checkout", transport.CheckoutRequest{
		ClientName:     "Maria Silva",
		ClientWhatsApp: "11999998888",
		PaymentMethod:  models.PaymentCash,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/cart", nil, cookies...)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Items)

	rec = do(e, http.MethodGet, "/api/orders", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
}

func TestMergeCartEndpoint(t *testing.T) {
	e, r := newTestServer(t)
	p := seedCatalog(t, r)
	cookies := login(t, e, r, "maria@example.com", service.RoleCustomer)

	rec := do(e, http.MethodPost, "/api/cart", transport.AddToCartRequest{ProductID: p.ID, Quantity: 1}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/cart/merge", transport.MergeCartRequest{
		Items: []transport.CartLine{{ProductID: p.ID, Quantity: 2}},
	}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart transport.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.Equal(t, uint(3), cart.Items[0].Quantity)
}

func TestStaffRoutesAreRoleGated(t *testing.T) {
	e, r := newTestServer(t)
	seedCatalog(t, r)

	// no session at all
	rec := do(e, http.MethodGet, "/api/admin/orders", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := login(t, e, r, "cliente@example.com", service.RoleCustomer)
	rec = do(e, http.MethodGet, "/api/admin/orders", nil, customer...)
	require.Equal(t, http.StatusForbidden, rec.Code)

	seller := login(t, e, r, "vendedor@example.com", service.RoleSeller)
	rec = do(e, http.MethodGet, "/api/admin/orders", nil, seller...)
	require.Equal(t, http.StatusOK, rec.Code)

	// product management is admin only
	rec = do(e, http.MethodPost, "/api/admin/products", transport.CreateProductRequest{Name: "bolo", Price: 3, Stock: 5}, seller...)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := login(t, e, r, "admin@example.com", service.RoleAdmin)
	rec = do(e, http.MethodPost, "/api/admin/products", transport.CreateProductRequest{Name: "bolo", Price: 3, Stock: 5}, admin...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestOrderStatusEndpoint(t *testing.T) {
	e, r := newTestServer(t)
	p := seedCatalog(t, r)
	seller := login(t, e, r, "vendedor@example.com", service.RoleSeller)

	rec := do(e, http.MethodPost, "/api/checkout", transport.CheckoutRequest{
		ClientName:     "Maria Silva",
		ClientWhatsApp: "11999998888",
		PaymentMethod:  models.PaymentCash,
		Items:          []transport.CartLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var res transport.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	path := fmt.Sprintf("/api/admin/orders/%d/status", res.Order.ID)
	rec = do(e, http.MethodPatch, path, transport.UpdateStatusRequest{Status: models.StatusPreparando}, seller...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// jumping straight to entregue is off the lifecycle
	rec = do(e, http.MethodPatch, path, transport.UpdateStatusRequest{Status: models.StatusEntregue}, seller...)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPatch, path, transport.UpdateStatusRequest{Status: "enviado"}, seller...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPixAdminEndpoints(t *testing.T) {
	e, r := newTestServer(t)
	admin := login(t, e, r, "admin@example.com", service.RoleAdmin)

	rec := do(e, http.MethodPost, "/api/admin/cantinas", transport.CreateCantinaRequest{Name: "sub-sede"}, admin...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cantina models.Cantina
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cantina))

	rec = do(e, http.MethodPut, fmt.Sprintf("/api/admin/cantinas/%d/pix", cantina.ID), transport.PixConfigRequest{
		KeyType: "telefone", KeyValue: "11988887777", OwnerName: "Tesouraria",
	}, admin...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPut, "/api/admin/pix/current", transport.SelectCantinaRequest{CantinaID: cantina.ID}, admin...)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/admin/pix/current", nil, admin...)
	require.Equal(t, http.StatusOK, rec.Code)
	var current transport.CurrentPixResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	require.Equal(t, cantina.ID, current.Cantina.ID)
	require.NotNil(t, current.Config)
	require.Equal(t, "11988887777", current.Config.KeyValue)
}

func TestReportEndpoint(t *testing.T) {
	e, r := newTestServer(t)
	p := seedCatalog(t, r)
	seller := login(t, e, r, "vendedor@example.com", service.RoleSeller)

	rec := do(e, http.MethodPost, "/api/checkout", transport.CheckoutRequest{
		ClientName:     "Maria Silva",
		ClientWhatsApp: "11999998888",
		PaymentMethod:  models.PaymentCash,
		Items:          []transport.CartLine{{ProductID: p.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	from := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	to := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	rec = do(e, http.MethodGet, "/api/admin/reports?from="+url.QueryEscape(from)+"&to="+url.QueryEscape(to), nil, seller...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report transport.SalesReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.EqualValues(t, 1, report.OrderCount)
	require.InDelta(t, 10.00, report.GrandTotal, 1e-9)
}

func TestMeAndSessionLifecycle(t *testing.T) {
	e, r := newTestServer(t)
	cookies := login(t, e, r, "maria@example.com", service.RoleCustomer)

	rec := do(e, http.MethodGet, "/api/auth/me", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "maria@example.com", me.Email)

	rec = do(e, http.MethodPost, "/api/auth/logout", nil, cookies...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/refresh", nil, cookies...)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
