package transport

// ProductForm carries the fields of a product create or update, from a
// multipart form or a JSON body. Nil means the field was not supplied.
type ProductForm struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	Stock       *uint    `json:"stock"`
	Category    *string  `json:"category"`
	SKU         *string  `json:"sku"`
	Brand       *string  `json:"brand"`
	Status      *string  `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
