package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shop-backend/internal/handlers"
	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
	"shop-backend/internal/service"
	"shop-backend/internal/storage"
	"shop-backend/internal/token"
	httpserver "shop-backend/internal/transport/http"
	"shop-backend/internal/upload"
	"shop-backend/internal/ws"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
	Hub    *ws.Hub
	Dir    string
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Photo{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	return buildTestEnv(t, 5<<20, true)
}

func buildTestEnv(t *testing.T, maxBytes int64, publicCatalog bool) *testEnv {
	db := InitTestDB(t)
	dir := t.TempDir()

	disk, err := storage.NewDiskStore(dir)
	require.NoError(t, err)

	ingestor := upload.NewIngestor(disk, "http://localhost:8080", maxBytes, []string{"jpg", "jpeg", "png", "gif"})
	tokens := &token.Service{Secret: []byte("test-secret")}
	repository := &repo.GormRepo{DB: db}
	hub := ws.NewHub("*", logging.New("error"))

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{Svc: &service.AuthService{
			Repo:       repository,
			Tokens:     tokens,
			BcryptCost: 4, // keep the tests fast
		}},
		ProductHandler: &handlers.ProductHandler{Svc: &service.ProductService{
			Repo:    repository,
			Uploads: ingestor,
			Hub:     hub,
		}},
		PhotoHandler: &handlers.PhotoHandler{Svc: &service.PhotoService{
			Repo:    repository,
			Uploads: ingestor,
		}},
		Tokens:        tokens,
		Hub:           hub,
		PublicCatalog: publicCatalog,
		UploadDir:     dir,
	}

	e := echo.New()
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: httpserver.BodyLimit(maxBytes),
	}))
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db, Tokens: tokens, Hub: hub, Dir: dir}
}

func (env *testEnv) doJSON(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.T, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends a multipart form; a non-nil file map entry named
// "image" becomes a file part with the given filename, content type and
// payload.
func (env *testEnv) doMultipart(method, path string, fields map[string]string, fileName, fileType string, fileBody []byte, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}

	if fileName != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
		hdr.Set("Content-Type", fileType)
		part, err := w.CreatePart(hdr)
		require.NoError(env.T, err)
		_, err = part.Write(fileBody)
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) registerAndLogin(email string) string {
	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "test_user",
		"email":    email,
		"password": "pw1",
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "pw1",
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp["token"])
	return resp["token"]
}
