package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/mykafka"
	"shop-backend/internal/repo"
	"shop-backend/internal/upload"
)

type PhotoService struct {
	Repo     *repo.GormRepo
	Uploads  *upload.Ingestor
	Producer *mykafka.Producer
}

func (s *PhotoService) Get(ctx context.Context, id uint) (*models.Photo, error) {
	photo, err := s.Repo.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}

func (s *PhotoService) List(ctx context.Context) ([]models.Photo, error) {
	return s.Repo.ListPhotos(ctx)
}

// Create requires both a title and an image; the upload timestamp is
// assigned here and never changes.
func (s *PhotoService) Create(ctx context.Context, title, description string, image *multipart.FileHeader) (*models.Photo, error) {
	l := logging.FromContext(ctx).With("svc", "photo.create")

	if title == "" || image == nil {
		return nil, ErrValidation
	}

	ref, err := s.Uploads.Ingest(ctx, image)
	if err != nil {
		return nil, err
	}

	photo := models.Photo{
		Title:       title,
		Description: description,
		ImageURL:    ref,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.Repo.CreatePhoto(ctx, &photo); err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}

	event := map[string]interface{}{
		"type":    "photo_created",
		"photoID": photo.ID,
		"title":   photo.Title,
	}
	if err := s.Producer.PublishEvent(ctx, "photo_events", fmt.Sprint(photo.ID), event); err != nil {
		l.Warn("kafka publish error", "error", err)
	}

	return &photo, nil
}

func (s *PhotoService) Delete(ctx context.Context, id uint) (*models.Photo, error) {
	l := logging.FromContext(ctx).With("svc", "photo.delete")

	photo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.DeletePhoto(ctx, id); err != nil {
		return nil, fmt.Errorf("delete photo: %w", err)
	}

	if err := s.Uploads.Remove(ctx, photo.ImageURL); err != nil {
		l.Warn("asset cleanup failed", "image_url", photo.ImageURL, "error", err)
	}

	event := map[string]interface{}{
		"type":    "photo_deleted",
		"photoID": id,
	}
	if err := s.Producer.PublishEvent(ctx, "photo_events", fmt.Sprint(id), event); err != nil {
		l.Warn("kafka publish error", "error", err)
	}

	return photo, nil
}
