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

type CatalogService struct {
	Repo *repo.GormRepo
	Pub  events.Publisher
}

func (s *CatalogService) List(ctx context.Context, includeInactive bool) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, !includeInactive)
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return product, err
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProductCreated, product)
	return product, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
		}
		updates["stock"] = *req.Stock
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	product, err := s.Repo.UpdateProduct(ctx, id, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProductUpdated, product)
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.ProductDeleted, product)
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType string, product *models.Product) {
	if s.Pub == nil {
		return
	}
	key := strconv.FormatUint(uint64(product.ID), 10)
	ev := events.NewEnvelope(eventType, product)
	if err := s.Pub.Publish(ctx, events.TopicProducts, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "type", eventType, "product_id", product.ID, "error", err)
	}
}
