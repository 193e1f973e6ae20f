package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/mykafka"
	"shop-backend/internal/repo"
	"shop-backend/internal/service/search"
	"shop-backend/internal/transport"
	"shop-backend/internal/upload"
	"shop-backend/internal/ws"
)

type ProductService struct {
	Repo     *repo.GormRepo
	Uploads  *upload.Ingestor
	Producer *mykafka.Producer
	Hub      *ws.Hub

	// ES is optional; when nil, search queries go to the database.
	ES      *elasticsearch.Client
	ESIndex string
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prod, nil
}

func (s *ProductService) List(ctx context.Context, query string) ([]models.Product, error) {
	if s.ES != nil && query != "" {
		items, err := search.Search(ctx, s.ES, s.ESIndex, query)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("search fell back to database", "error", err)
	}
	return s.Repo.ListProducts(ctx, query)
}

func (s *ProductService) Create(ctx context.Context, form transport.ProductForm, image *multipart.FileHeader) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	if form.Name == nil || *form.Name == "" || form.Price == nil || *form.Price < 0 {
		return nil, ErrValidation
	}

	prod := models.Product{
		Name:     *form.Name,
		Price:    *form.Price,
		Currency: "USD",
		Status:   models.StatusActive,
	}
	if form.Description != nil {
		prod.Description = *form.Description
	}
	if form.Currency != nil && *form.Currency != "" {
		prod.Currency = *form.Currency
	}
	if form.Stock != nil {
		prod.Stock = *form.Stock
	}
	if form.Category != nil {
		prod.Category = *form.Category
	}
	if form.SKU != nil {
		prod.SKU = *form.SKU
	}
	if form.Brand != nil {
		prod.Brand = *form.Brand
	}
	if form.Status != nil && *form.Status != "" {
		if !models.ValidStatus(*form.Status) {
			return nil, ErrValidation
		}
		prod.Status = *form.Status
	}

	if image != nil {
		ref, err := s.Uploads.Ingest(ctx, image)
		if err != nil {
			return nil, err
		}
		prod.ImageURL = ref
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, l, "product_created", &prod)
	s.Hub.BroadcastProductCreated(&prod)

	return &prod, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, form transport.ProductForm, image *multipart.FileHeader) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.update")

	prod, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if form.Name != nil {
		if *form.Name == "" {
			return nil, ErrValidation
		}
		prod.Name = *form.Name
	}
	if form.Description != nil {
		prod.Description = *form.Description
	}
	if form.Price != nil {
		if *form.Price < 0 {
			return nil, ErrValidation
		}
		prod.Price = *form.Price
	}
	if form.Currency != nil {
		prod.Currency = *form.Currency
	}
	if form.Stock != nil {
		prod.Stock = *form.Stock
	}
	if form.Category != nil {
		prod.Category = *form.Category
	}
	if form.SKU != nil {
		prod.SKU = *form.SKU
	}
	if form.Brand != nil {
		prod.Brand = *form.Brand
	}
	if form.Status != nil {
		if !models.ValidStatus(*form.Status) {
			return nil, ErrValidation
		}
		prod.Status = *form.Status
	}

	if image != nil {
		// A new upload replaces the reference. The previous file stays on
		// disk; see DESIGN.md for why this is not cleaned up here.
		ref, err := s.Uploads.Ingest(ctx, image)
		if err != nil {
			return nil, err
		}
		prod.ImageURL = ref
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.afterWrite(ctx, l, "product_updated", prod)

	return prod, nil
}

// Delete removes the record first, then best-effort cleans the backing
// asset. A missing file is success; any other I/O failure is logged and
// the delete still reports success.
func (s *ProductService) Delete(ctx context.Context, id uint) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.delete")

	prod, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	if prod.ImageURL != "" {
		if err := s.Uploads.Remove(ctx, prod.ImageURL); err != nil {
			l.Warn("asset cleanup failed", "image_url", prod.ImageURL, "error", err)
		}
	}

	if s.ES != nil {
		if err := search.DeleteProduct(ctx, s.ES, s.ESIndex, id); err != nil {
			l.Warn("search index cleanup failed", "error", err)
		}
	}

	event := map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	}
	if err := s.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(id), event); err != nil {
		l.Warn("kafka publish error", "error", err)
	}

	return prod, nil
}

// afterWrite pushes the side effects of a successful create/update: an
// event on the product topic and a search index upsert. Both are best
// effort and never fail the request.
func (s *ProductService) afterWrite(ctx context.Context, l *slog.Logger, eventType string, prod *models.Product) {
	event := map[string]interface{}{
		"type":      eventType,
		"productID": prod.ID,
		"name":      prod.Name,
	}
	if err := s.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(prod.ID), event); err != nil {
		l.Warn("kafka publish error", "error", err)
	}

	if s.ES != nil {
		if err := search.IndexProduct(ctx, s.ES, s.ESIndex, prod); err != nil {
			l.Warn("search index update failed", "error", err)
		}
	}
}
