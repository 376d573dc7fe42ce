package models

import "time"

// Article представляет новостную статью каталога.
type Article struct {
	UID       string     `json:"uid"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DummyArticle используется для приёма данных статьи из JSON-запроса
// до конвертации в Article.
type DummyArticle struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url"`
}
