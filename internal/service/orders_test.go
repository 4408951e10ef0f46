package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/events"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

func placeOrder(t *testing.T, svc *CheckoutService, lines ...transport.CartLine) *models.Order {
	t.Helper()
	order, err := svc.Checkout(context.Background(), checkoutReq(models.PaymentCash, lines...), nil)
	require.NoError(t, err)
	return order
}

func TestOrderStatusHappyPath(t *testing.T) {
	r := newTestRepo(t)
	pub := &recorderPub{}
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r, Pub: pub}
	ctx := context.Background()

	seedCantina(t, r, false)
	p := seedProduct(t, r, "coxinha", 5.00, 10)
	order := placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 2})

	for _, next := range []string{
		models.StatusPreparando,
		models.StatusPagamentoPendente,
		models.StatusPago,
		models.StatusEntregue,
	} {
		got, err := svc.UpdateStatus(ctx, order.ID, next)
		require.NoError(t, err)
		require.Equal(t, next, got.Status)
	}

	require.Equal(t, []string{
		events.OrderStatusChanged,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
	}, pub.types())

	// entregue is terminal
	_, err := svc.UpdateStatus(ctx, order.ID, models.StatusCancelado)
	require.ErrorIs(t, err, ErrConflict)
}

func TestOrderStatusInvalidTransition(t *testing.T) {
	r := newTestRepo(t)
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seedCantina(t, r, false)
	p := seedProduct(t, r, "coxinha", 5.00, 10)
	order := placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 1})

	// pendente cannot jump straight to entregue
	_, err := svc.UpdateStatus(ctx, order.ID, models.StatusEntregue)
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateStatus(ctx, order.ID, "inexistente")
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderCancelRestoresStock(t *testing.T) {
	r := newTestRepo(t)
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seedCantina(t, r, false)
	coxinha := seedProduct(t, r, "coxinha", 5.00, 10)
	suco := seedProduct(t, r, "suco", 4.00, 8)
	order := placeOrder(t, checkout,
		transport.CartLine{ProductID: coxinha.ID, Quantity: 4},
		transport.CartLine{ProductID: suco.ID, Quantity: 2},
	)
	require.Equal(t, 6, productStock(t, r, coxinha.ID))
	require.Equal(t, 6, productStock(t, r, suco.ID))

	got, err := svc.UpdateStatus(ctx, order.ID, models.StatusCancelado)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelado, got.Status)
	require.Equal(t, 10, productStock(t, r, coxinha.ID))
	require.Equal(t, 8, productStock(t, r, suco.ID))

	// cancelling twice is rejected, stock restored only once
	_, err = svc.UpdateStatus(ctx, order.ID, models.StatusCancelado)
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 10, productStock(t, r, coxinha.ID))
}

func TestOrderDeleteRestoresStock(t *testing.T) {
	r := newTestRepo(t)
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seedCantina(t, r, false)
	p := seedProduct(t, r, "bolo", 8.00, 5)
	order := placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 3})
	require.Equal(t, 2, productStock(t, r, p.ID))

	require.NoError(t, svc.Delete(ctx, order.ID))
	require.Equal(t, 5, productStock(t, r, p.ID))

	_, err := svc.Get(ctx, order.ID)
	require.ErrorIs(t, err, ErrNotFound)

	var itemCount int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	require.Zero(t, itemCount)
}

func TestOrderDeleteCancelledRejected(t *testing.T) {
	r := newTestRepo(t)
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seedCantina(t, r, false)
	p := seedProduct(t, r, "bolo", 8.00, 5)
	order := placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 2})

	_, err := svc.UpdateStatus(ctx, order.ID, models.StatusCancelado)
	require.NoError(t, err)
	require.Equal(t, 5, productStock(t, r, p.ID))

	err = svc.Delete(ctx, order.ID)
	require.ErrorIs(t, err, ErrConflict)
	// no double restoration
	require.Equal(t, 5, productStock(t, r, p.ID))
}

func TestOrderListFilters(t *testing.T) {
	r := newTestRepo(t)
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seedCantina(t, r, false)
	p := seedProduct(t, r, "suco", 4.00, 50)
	first := placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 1})
	placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 1})

	_, err := svc.UpdateStatus(ctx, first.ID, models.StatusPreparando)
	require.NoError(t, err)

	orders, err := svc.List(ctx, repo.OrderFilter{Status: models.StatusPreparando})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, first.ID, orders[0].ID)

	_, err = svc.List(ctx, repo.OrderFilter{Status: "nada"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestListMineOnlyOwnOrders(t *testing.T) {
	r := newTestRepo(t)
	cartSvc := &CartService{Repo: r}
	checkout := &CheckoutService{Repo: r}
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	seedCantina(t, r, false)
	user := seedUser(t, r, "a@b.com", RoleCustomer)
	p := seedProduct(t, r, "suco", 4.00, 50)

	_, err := cartSvc.Add(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)
	mine, err := checkout.Checkout(ctx, checkoutReq(models.PaymentCash), &user.ID)
	require.NoError(t, err)

	// a guest order should not show up
	placeOrder(t, checkout, transport.CartLine{ProductID: p.ID, Quantity: 1})

	orders, err := svc.ListMine(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, mine.ID, orders[0].ID)
}

func TestOrderGetNotFound(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}
