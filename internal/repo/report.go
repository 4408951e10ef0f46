package repo

import (
	"context"
	"time"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
)

type ProductSales struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  uint    `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// AggregateSales groups order lines by product over [from, to) for the
// given statuses. Read-only.
func (r *GormRepo) AggregateSales(ctx context.Context, from, to time.Time, statuses []string) ([]ProductSales, int64, error) {
	var rows []ProductSales
	err := r.DB.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id AS product_id, order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Where("orders.status IN ?", statuses).
		Group("order_items.product_id, order_items.name").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	var orderCount int64
	err = r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status IN ?", statuses).
		Count(&orderCount).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, orderCount, nil
}
