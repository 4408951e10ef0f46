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
)

type OrderService struct {
	Repo *repo.GormRepo
	Pub  events.Publisher
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return order, err
}

// GetGuest looks up a guest order by id plus the WhatsApp number given at
// checkout, so a guest without an account can retrieve their receipt.
func (s *OrderService) GetGuest(ctx context.Context, id uint, whatsapp string) (*models.Order, error) {
	digits := onlyDigits(whatsapp)
	if digits == "" {
		return nil, fmt.Errorf("%w: whatsapp required", ErrValidation)
	}
	order, err := s.Repo.GetGuestOrder(ctx, id, digits)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return order, err
}

func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) List(ctx context.Context, f repo.OrderFilter) ([]models.Order, error) {
	if f.Status != "" && !models.ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	return s.Repo.ListOrders(ctx, f)
}

// UpdateStatus applies one transition of the order lifecycle. Moves outside
// the adjacency list are rejected; moving to cancelado restores stock for
// every line atomically with the status write.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, next string) (*models.Order, error) {
	if !models.ValidStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, next) {
		return nil, fmt.Errorf("%w: cannot move order from %q to %q", ErrConflict, order.Status, next)
	}

	var ok bool
	if next == models.StatusCancelado {
		ok, err = s.Repo.CancelOrder(ctx, order)
	} else {
		ok, err = s.Repo.UpdateOrderStatus(ctx, id, order.Status, next)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		// someone else moved the order between our read and write
		return nil, fmt.Errorf("%w: order %d changed concurrently", ErrConflict, id)
	}

	order.Status = next
	s.publish(ctx, events.OrderStatusChanged, order)
	return order, nil
}

// Delete removes an order permanently, restoring its stock first. Cancelled
// orders already restored their stock and cannot be deleted again.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == models.StatusCancelado {
		return fmt.Errorf("%w: cancelled orders cannot be deleted", ErrConflict)
	}
	deleted, err := s.Repo.DeleteOrder(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: order %d changed concurrently", ErrConflict, id)
	}
	s.publish(ctx, events.OrderDeleted, order)
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.Pub == nil {
		return
	}
	key := strconv.FormatUint(uint64(order.ID), 10)
	ev := events.NewEnvelope(eventType, order)
	if err := s.Pub.Publish(ctx, events.TopicOrders, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "type", eventType, "order_id", order.ID, "error", err)
	}
}
