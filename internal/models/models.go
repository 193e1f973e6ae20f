package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"not null"                 json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Currency    string  `json:"currency"`
	Stock       uint    `json:"stock"`
	Category    string  `json:"category"`
	SKU         string  `json:"sku"`
	Brand       string  `json:"brand"`
	Status      string  `gorm:"default:active"            json:"status"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type Photo struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `gorm:"not null"                 json:"image_url"`
	UploadedAt  time.Time `gorm:"not null"                 json:"uploaded_at"`
}

// Product lifecycle statuses accepted on create/update.
const (
	StatusActive       = "active"
	StatusDraft        = "draft"
	StatusDiscontinued = "discontinued"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusDraft, StatusDiscontinued:
		return true
	}
	return false
}
