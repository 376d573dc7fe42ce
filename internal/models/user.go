// Package models содержит доменные структуры приложения: пользователей,
// музеи и новостные статьи, а также вспомогательные типы для приёма данных
// из внешних источников (например, JSON-запросов).
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Name         string     // Имя пользователя
	Email        string     // Электронная почта (уникальная, хранится в нижнем регистре)
	PasswordHash string     // Хэш пароля пользователя
	Phone        string     // Телефон (необязательное поле)
	Address      string     // Адрес (необязательное поле)
	Role         string     // Роль пользователя, admin или user
	CreatedAt    *time.Time // Дата создания учетной записи
}

// PublicUser — публичная проекция пользователя без хэша пароля.
// Только она уходит в ответах сервера.
type PublicUser struct {
	UID       string     `json:"uid"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Public возвращает публичную проекцию пользователя.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		UID:       u.UID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileUpdate описывает частичное обновление профиля.
// Пустые поля оставляют сохраненные значения без изменений.
// Email, пароль и роль через профиль не меняются.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
}
