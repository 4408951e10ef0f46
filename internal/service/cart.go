package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) Get(ctx context.Context, userID uint) ([]models.CartItem, float64, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, CartTotal(items), nil
}

// Add snapshots the product name/price into the cart line; an existing line
// for the same product just gains quantity. Stock is not checked here, only
// at checkout.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("%w: product %q is not for sale", ErrValidation, product.Name)
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity with a quantity below one removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		if err := s.Remove(ctx, userID, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	item, err := s.Repo.SetCartQuantity(ctx, userID, productID, uint(quantity))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d not in cart", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	return s.Repo.RemoveFromCart(ctx, userID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}

func (s *CartService) Contains(ctx context.Context, userID, productID uint) (bool, uint, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	for _, it := range items {
		if it.ProductID == productID {
			return true, it.Quantity, nil
		}
	}
	return false, 0, nil
}

// Merge folds a guest-local cart into the user's persisted one, summing
// quantities per product. Lines for unknown or inactive products are
// skipped. The result does not depend on iteration order.
func (s *CartService) Merge(ctx context.Context, userID uint, lines []transport.CartLine) ([]models.CartItem, error) {
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity == 0 {
			continue
		}
		product, err := s.Repo.GetProduct(ctx, line.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.Active {
			continue
		}
		item := &models.CartItem{
			UserID:    userID,
			ProductID: line.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		}
		if err := s.Repo.AddToCart(ctx, item); err != nil {
			return nil, err
		}
	}
	return s.Repo.GetCart(ctx, userID)
}

func CartTotal(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
