package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shop-backend/internal/models"
	"shop-backend/internal/upload"
)

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("a@x.com")

	// mutation without a credential is rejected before the handler runs
	rec := env.doJSON(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "stock": 3,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "stock": 3,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	require.NotZero(t, prod.ID)
	require.Equal(t, "Widget", prod.Name)
	require.Equal(t, models.StatusActive, prod.Status)
	require.EqualValues(t, 3, prod.Stock)

	// case-insensitive substring search
	rec = env.doJSON(http.MethodGet, "/api/products?search=widget", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, prod.ID, list[0].ID)

	rec = env.doJSON(http.MethodGet, "/api/products?search=nothere", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 0)

	path := fmt.Sprintf("/api/products/%d", prod.ID)
	rec = env.doJSON(http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var delResp struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &delResp))
	require.Equal(t, prod.ID, delResp.Product.ID)

	rec = env.doJSON(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductWithImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("a@x.com")

	rec := env.doMultipart(http.MethodPost, "/api/products", map[string]string{
		"name": "Camera", "price": "199.90", "stock": "5", "brand": "Acme",
	}, "camera.png", "image/png", []byte("fake png bytes"), token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	require.Contains(t, prod.ImageURL, "/uploads/")
	require.Equal(t, "Acme", prod.Brand)

	// the file really landed in the upload dir
	name := upload.FileName(prod.ImageURL)
	_, err := os.Stat(filepath.Join(env.Dir, name))
	require.NoError(t, err)

	// deleting the product cleans the asset up
	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/products/%d", prod.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = os.Stat(filepath.Join(env.Dir, name))
	require.True(t, os.IsNotExist(err))
}

func TestCreateProductRejectsBadUploads(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("a@x.com")

	// extension outside the allow-list, even with an image content type
	rec := env.doMultipart(http.MethodPost, "/api/products", map[string]string{
		"name": "Camera", "price": "1",
	}, "evil.exe", "image/png", []byte("mz"), token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// allowed extension but wrong declared type
	rec = env.doMultipart(http.MethodPost, "/api/products", map[string]string{
		"name": "Camera", "price": "1",
	}, "pic.png", "application/octet-stream", []byte("data"), token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// rejected uploads must not create records or leave files behind
	var count int64
	env.DB.Model(&models.Product{}).Count(&count)
	require.Zero(t, count)
	entries, err := os.ReadDir(env.Dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// An upload of exactly the configured size ceiling must clear both the
// request-body middleware and the ingestor; one byte more is 413.
func TestUploadAtSizeCeiling(t *testing.T) {
	env := buildTestEnv(t, 4096, true)
	token := env.registerAndLogin("a@x.com")

	rec := env.doMultipart(http.MethodPost, "/api/products", map[string]string{
		"name": "Poster", "price": "1",
	}, "full.png", "image/png", make([]byte, 4096), token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doMultipart(http.MethodPost, "/api/products", map[string]string{
		"name": "Poster", "price": "1",
	}, "over.png", "image/png", make([]byte, 4097), token)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// With the public-catalog toggle off, read routes are guarded like writes.
func TestGuardedCatalogReads(t *testing.T) {
	env := buildTestEnv(t, 5<<20, false)
	token := env.registerAndLogin("a@x.com")

	rec := env.doJSON(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 9.99,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))

	for _, path := range []string{
		"/api/products",
		fmt.Sprintf("/api/products/%d", prod.ID),
		"/api/photos",
	} {
		rec = env.doJSON(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = env.doJSON(http.MethodGet, path, nil, token)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("a@x.com")

	rec := env.doJSON(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "stock": 3, "category": "tools",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))

	// only supplied fields change
	rec = env.doMultipart(http.MethodPut, fmt.Sprintf("/api/products/%d", prod.ID), map[string]string{
		"price": "12.50", "status": "discontinued",
	}, "", "", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Widget", updated.Name)
	require.Equal(t, "tools", updated.Category)
	require.EqualValues(t, 12.50, updated.Price)
	require.Equal(t, models.StatusDiscontinued, updated.Status)

	// unknown id
	rec = env.doMultipart(http.MethodPut, "/api/products/9999", map[string]string{
		"price": "1",
	}, "", "", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// bogus status
	rec = env.doMultipart(http.MethodPut, fmt.Sprintf("/api/products/%d", prod.ID), map[string]string{
		"status": "bogus",
	}, "", "", nil, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
