package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
)

// currentSelectionID is the fixed primary key of the singleton row pointing
// at the active cantina.
const currentSelectionID = 1

func (r *GormRepo) ListCantinas(ctx context.Context) ([]models.Cantina, error) {
	var cantinas []models.Cantina
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cantinas).Error; err != nil {
		return nil, err
	}
	return cantinas, nil
}

func (r *GormRepo) GetCantina(ctx context.Context, id uint) (*models.Cantina, error) {
	var cantina models.Cantina
	if err := r.DB.WithContext(ctx).First(&cantina, id).Error; err != nil {
		return nil, err
	}
	return &cantina, nil
}

func (r *GormRepo) CreateCantina(ctx context.Context, cantina *models.Cantina) error {
	return r.DB.WithContext(ctx).Create(cantina).Error
}

func (r *GormRepo) GetPixConfig(ctx context.Context, cantinaID uint) (*models.PixConfig, error) {
	var cfg models.PixConfig
	if err := r.DB.WithContext(ctx).Where("cantina_id = ?", cantinaID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *GormRepo) UpsertPixConfig(ctx context.Context, cfg *models.PixConfig) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cantina_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"key_type", "key_value", "owner_name"}),
	}).Create(cfg).Error
}

func (r *GormRepo) SetCurrentCantina(ctx context.Context, cantinaID uint) error {
	sel := models.PixSelection{ID: currentSelectionID, CantinaID: cantinaID}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cantina_id"}),
	}).Create(&sel).Error
}

// GetCurrentCantina resolves the singleton active-cantina pointer.
func (r *GormRepo) GetCurrentCantina(ctx context.Context) (*models.PixSelection, error) {
	var sel models.PixSelection
	if err := r.DB.WithContext(ctx).First(&sel, currentSelectionID).Error; err != nil {
		return nil, err
	}
	return &sel, nil
}
