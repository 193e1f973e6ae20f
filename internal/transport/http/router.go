package httpserver

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/handlers"
	authmw "shop-backend/internal/middleware/auth"
	"shop-backend/internal/token"
	"shop-backend/internal/ws"
)

// BodyLimit renders the request-body cap for the BodyLimit middleware:
// the upload ceiling plus headroom for the multipart framing, in binary
// kibibytes (the bare "K" unit is decimal and would land below the
// ceiling).
func BodyLimit(uploadMaxBytes int64) string {
	return fmt.Sprintf("%dKi", (uploadMaxBytes/1024)+64)
}

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	PhotoHandler   *handlers.PhotoHandler
	Tokens         *token.Service
	Hub            *ws.Hub

	// PublicCatalog leaves product/photo reads unauthenticated. Some
	// deployments want a public storefront, so it is a toggle.
	PublicCatalog bool

	// UploadDir is mounted at /uploads when assets live on local disk;
	// empty when an object-storage backend serves them directly.
	UploadDir string
}

// Register wires the whole route table in one place so matching never
// depends on registration order.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	e.GET("/ws", d.Hub.ServeWS)

	api := e.Group("/api")
	api.GET("/info", handlers.Info)

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	guard := authmw.RequireLogin(d.Tokens)

	read := api.Group("")
	if !d.PublicCatalog {
		read = api.Group("", guard)
	}
	read.GET("/products", d.ProductHandler.GetProducts)
	read.GET("/products/:id", d.ProductHandler.GetProduct)
	read.GET("/photos", d.PhotoHandler.GetPhotos)
	read.GET("/photos/:id", d.PhotoHandler.GetPhoto)

	write := api.Group("", guard)
	write.POST("/products", d.ProductHandler.CreateProduct)
	write.PUT("/products/:id", d.ProductHandler.UpdateProduct)
	write.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	write.POST("/photos", d.PhotoHandler.CreatePhoto)
	write.DELETE("/photos/:id", d.PhotoHandler.DeletePhoto)
}
