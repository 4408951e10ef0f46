package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/events"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/logging"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type CheckoutService struct {
	Repo *repo.GormRepo
	Pub  events.Publisher
}

// Checkout validates the cart against live stock, snapshots it into an
// order and decrements stock, all inside one transaction. Authenticated
// users spend their persisted cart (cleared on success); guests send their
// local lines in the request. Either every line commits or none does.
func (s *CheckoutService) Checkout(ctx context.Context, req transport.CheckoutRequest, userID *uint) (*models.Order, error) {
	if len(req.ClientName) < 2 {
		return nil, fmt.Errorf("%w: client_name required", ErrValidation)
	}
	if len(onlyDigits(req.ClientWhatsApp)) < 10 {
		return nil, fmt.Errorf("%w: client_whatsapp must be a valid phone number", ErrValidation)
	}
	if req.PaymentMethod != models.PaymentCash && req.PaymentMethod != models.PaymentPix {
		return nil, fmt.Errorf("%w: payment_method must be %q or %q", ErrValidation, models.PaymentCash, models.PaymentPix)
	}

	items, err := s.resolveItems(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	sel, err := s.Repo.GetCurrentCantina(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no active cantina selected", ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ClientName:     req.ClientName,
		ClientWhatsApp: onlyDigits(req.ClientWhatsApp),
		UserID:         userID,
		CantinaID:      sel.CantinaID,
		PaymentMethod:  req.PaymentMethod,
		Status:         models.StatusPendente,
		Items:          items,
	}
	for _, it := range items {
		order.Total += it.Price * float64(it.Quantity)
	}

	if req.PaymentMethod == models.PaymentPix {
		cfg, err := s.Repo.GetPixConfig(ctx, sel.CantinaID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cantina %d has no pix key", ErrPixNotConfigured, sel.CantinaID)
		}
		if err != nil {
			return nil, err
		}
		order.PixKeyType = cfg.KeyType
		order.PixKeyValue = cfg.KeyValue
		order.PixOwnerName = cfg.OwnerName
	}

	shortfalls, err := s.Repo.PlaceOrder(ctx, order, userID)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		return nil, &InsufficientStockError{Shortfalls: shortfalls}
	}

	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// resolveItems builds the immutable order lines. Cart lines keep the
// name/price snapshot taken when they were added; guest lines are
// snapshotted from the live product rows here.
func (s *CheckoutService) resolveItems(ctx context.Context, req transport.CheckoutRequest, userID *uint) ([]models.OrderItem, error) {
	if userID != nil {
		cart, err := s.Repo.GetCart(ctx, *userID)
		if err != nil {
			return nil, err
		}
		items := make([]models.OrderItem, 0, len(cart))
		for _, ci := range cart {
			items = append(items, models.OrderItem{
				ProductID: ci.ProductID,
				Name:      ci.Name,
				Price:     ci.Price,
				Quantity:  ci.Quantity,
			})
		}
		return items, nil
	}

	merged := make(map[uint]uint, len(req.Items))
	order := make([]uint, 0, len(req.Items))
	for _, line := range req.Items {
		if line.ProductID == 0 || line.Quantity == 0 {
			return nil, fmt.Errorf("%w: every item needs product_id and quantity", ErrValidation)
		}
		if _, seen := merged[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		merged[line.ProductID] += line.Quantity
	}

	products, err := s.Repo.GetProductsByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(order))
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  merged[id],
		})
	}
	return items, nil
}

func (s *CheckoutService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.Pub == nil {
		return
	}
	key := strconv.FormatUint(uint64(order.ID), 10)
	ev := events.NewEnvelope(eventType, order)
	if err := s.Pub.Publish(ctx, events.TopicOrders, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "type", eventType, "order_id", order.ID, "error", err)
	}
}

func onlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
