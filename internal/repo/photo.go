package repo

import (
	"context"

	"shop-backend/internal/models"
)

func (r *GormRepo) GetPhoto(ctx context.Context, id uint) (*models.Photo, error) {
	photo := models.Photo{}
	if err := r.DB.WithContext(ctx).First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *GormRepo) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	items := []models.Photo{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	return r.DB.WithContext(ctx).Create(photo).Error
}

func (r *GormRepo) DeletePhoto(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Photo{}, id).Error
}
