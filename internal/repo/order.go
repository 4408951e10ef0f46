package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/util"
)

// StockShortfall reports one cart line that could not be fulfilled.
type StockShortfall struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Requested uint   `json:"requested"`
	Available int    `json:"available"`
}

var errInsufficientStock = errors.New("insufficient stock")

// PlaceOrder decrements stock for every line and creates the order in one
// transaction. A line fails when the product is missing, inactive or short
// on stock; any failed line rolls the whole order back and the shortfalls
// are returned with err == nil. clearCartUserID, when set, clears that
// user's cart rows inside the same transaction.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, clearCartUserID *uint) ([]StockShortfall, error) {
	var shortfalls []StockShortfall
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			it := &order.Items[i]
			res := tx.Model(&models.Product{}).
				Where("id = ? AND active = ? AND stock >= ?", it.ProductID, true, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				sf := StockShortfall{ProductID: it.ProductID, Name: it.Name, Requested: it.Quantity}
				var p models.Product
				if err := tx.First(&p, it.ProductID).Error; err == nil {
					sf.Name = p.Name
					if p.Active {
						sf.Available = p.Stock
					}
				}
				shortfalls = append(shortfalls, sf)
			}
		}
		if len(shortfalls) > 0 {
			return errInsufficientStock
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if clearCartUserID != nil {
			if err := tx.Where("user_id = ?", *clearCartUserID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errInsufficientStock) {
		return shortfalls, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetGuestOrder(ctx context.Context, id uint, whatsapp string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("id = ? AND client_whats_app = ? AND user_id IS NULL", id, whatsapp).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type OrderFilter struct {
	Status   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	offset, limit := util.Page(f.Page, f.PageSize)
	var orders []models.Order
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus writes the new status conditioned on the expected prior
// one; a concurrent transition makes RowsAffected zero and the caller treats
// that as a conflict.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelOrder moves the order to cancelado and restores stock for every
// line in the same transaction.
func (r *GormRepo) CancelOrder(ctx context.Context, order *models.Order) (bool, error) {
	canceled := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]any{"status": models.StatusCancelado, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}
		canceled = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return canceled, nil
}

// DeleteOrder removes the order and its items, restoring stock first. An
// already-cancelled order is skipped (stock was restored on cancelation).
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND status <> ?", id, models.StatusCancelado).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, it := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ?", it.ProductID).
			Update("stock", gorm.Expr("stock + ?", it.Quantity))
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}
