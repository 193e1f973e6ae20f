package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shop-backend/internal/models"
	"shop-backend/internal/upload"
)

func TestPhotoLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("a@x.com")

	// title without image is invalid
	rec := env.doMultipart(http.MethodPost, "/api/photos", map[string]string{
		"title": "Sunset",
	}, "", "", nil, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// image without title is invalid too
	rec = env.doMultipart(http.MethodPost, "/api/photos", nil,
		"sunset.jpg", "image/jpeg", []byte("jpeg bytes"), token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	before := time.Now().UTC().Add(-time.Second)
	rec = env.doMultipart(http.MethodPost, "/api/photos", map[string]string{
		"title":       "Sunset",
		"description": "over the bay",
	}, "sunset.jpg", "image/jpeg", []byte("jpeg bytes"), token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var photo models.Photo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &photo))
	require.NotZero(t, photo.ID)
	require.Contains(t, photo.ImageURL, "/uploads/")
	require.True(t, photo.UploadedAt.After(before))

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/api/photos/%d", photo.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Photo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, "Sunset", fetched.Title)

	rec = env.doJSON(http.MethodGet, "/api/photos", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Photo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/photos/%d", photo.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/photos/%d", photo.ID), nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// Deleting a photo whose backing file is already gone still succeeds.
func TestDeletePhotoMissingAsset(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("a@x.com")

	rec := env.doMultipart(http.MethodPost, "/api/photos", map[string]string{
		"title": "Sunset",
	}, "sunset.jpg", "image/jpeg", []byte("jpeg bytes"), token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var photo models.Photo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &photo))

	name := upload.FileName(photo.ImageURL)
	require.NoError(t, os.Remove(filepath.Join(env.Dir, name)))

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/photos/%d", photo.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
}
