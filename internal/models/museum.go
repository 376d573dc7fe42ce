package models

import "time"

// Museum представляет карточку музея в каталоге.
type Museum struct {
	UID         string     `json:"uid"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	City        string     `json:"city"`
	Address     string     `json:"address"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// DummyMuseum используется для приёма данных музея из JSON-запроса
// до конвертации в Museum.
type DummyMuseum struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	City        string `json:"city" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Category    string `json:"category" validate:"required"`
	ImageURL    string `json:"image_url"`
}
