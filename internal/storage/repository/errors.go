package repository

import "errors"

var (
	// ErrUserExists возвращается при попытке зарегистрировать пользователя
	// с уже занятым email. Источник истины — уникальный индекс users(email),
	// приложение не делает предварительной проверки существования.
	ErrUserExists = errors.New("user already exists")

	// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе.
	ErrNotFound = errors.New("not found")
)
