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

// PIX key kinds accepted by the payment network.
var pixKeyTypes = map[string]bool{
	"telefone":  true,
	"email":     true,
	"cpf":       true,
	"cnpj":      true,
	"aleatoria": true,
}

type PixService struct {
	Repo *repo.GormRepo
}

func (s *PixService) ListCantinas(ctx context.Context) ([]models.Cantina, error) {
	return s.Repo.ListCantinas(ctx)
}

func (s *PixService) CreateCantina(ctx context.Context, req transport.CreateCantinaRequest) (*models.Cantina, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	cantina := &models.Cantina{Name: req.Name}
	if err := s.Repo.CreateCantina(ctx, cantina); err != nil {
		return nil, err
	}
	return cantina, nil
}

func (s *PixService) UpsertConfig(ctx context.Context, cantinaID uint, req transport.PixConfigRequest) (*models.PixConfig, error) {
	if !pixKeyTypes[req.KeyType] {
		return nil, fmt.Errorf("%w: unknown pix key type %q", ErrValidation, req.KeyType)
	}
	if req.KeyValue == "" || req.OwnerName == "" {
		return nil, fmt.Errorf("%w: key_value and owner_name required", ErrValidation)
	}
	if _, err := s.Repo.GetCantina(ctx, cantinaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cantina %d", ErrNotFound, cantinaID)
		}
		return nil, err
	}

	cfg := &models.PixConfig{
		CantinaID: cantinaID,
		KeyType:   req.KeyType,
		KeyValue:  req.KeyValue,
		OwnerName: req.OwnerName,
	}
	if err := s.Repo.UpsertPixConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SelectCurrent points new orders at the given cantina.
func (s *PixService) SelectCurrent(ctx context.Context, cantinaID uint) error {
	if _, err := s.Repo.GetCantina(ctx, cantinaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cantina %d", ErrNotFound, cantinaID)
		}
		return err
	}
	return s.Repo.SetCurrentCantina(ctx, cantinaID)
}

// Current returns the active cantina and its PIX config, when one exists.
func (s *PixService) Current(ctx context.Context) (*transport.CurrentPixResponse, error) {
	sel, err := s.Repo.GetCurrentCantina(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no active cantina selected", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	cantina, err := s.Repo.GetCantina(ctx, sel.CantinaID)
	if err != nil {
		return nil, err
	}

	resp := &transport.CurrentPixResponse{Cantina: cantina}
	cfg, err := s.Repo.GetPixConfig(ctx, sel.CantinaID)
	if err == nil {
		resp.Config = cfg
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return resp, nil
}
