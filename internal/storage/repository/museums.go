package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/museum-directory/internal/models"
)

// CreateMuseum сохраняет новую карточку музея и возвращает её UID.
func (s *Storage) CreateMuseum(ctx context.Context, museum models.Museum) (string, error) {
	const op = "storage.CreateMuseum"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO museums (name, description, city, address, category, image_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		museum.Name, museum.Description, museum.City, museum.Address,
		museum.Category, museum.ImageURL).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ReadMuseum возвращает карточку музея по UID.
func (s *Storage) ReadMuseum(ctx context.Context, uid string) (*models.Museum, error) {
	const op = "storage.ReadMuseum"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, city, address, category, image_url, created_at
			  FROM museums
			  WHERE uid = $1`
	m := &models.Museum{}
	var imageURL sql.NullString
	var createdAt sql.NullTime
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(&m.UID, &m.Name,
		&m.Description, &m.City, &m.Address, &m.Category, &imageURL, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if imageURL.Valid {
		m.ImageURL = imageURL.String
	}
	if createdAt.Valid {
		m.CreatedAt = &createdAt.Time
	}
	return m, nil
}

// UpdateMuseum обновляет карточку музея по UID и возвращает количество
// затронутых записей.
func (s *Storage) UpdateMuseum(ctx context.Context, uid string, museum models.Museum) (int64, error) {
	const op = "storage.UpdateMuseum"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	commandTag, err := s.DB.ExecContext(ctx, `
		UPDATE museums
		SET name = $1, description = $2, city = $3, address = $4,
		    category = $5, image_url = $6
		WHERE uid = $7`,
		museum.Name, museum.Description, museum.City, museum.Address,
		museum.Category, museum.ImageURL, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	result, err := commandTag.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveMuseum удаляет карточку музея по UID и возвращает количество
// удаленных записей.
func (s *Storage) RemoveMuseum(ctx context.Context, uid string) (int64, error) {
	const op = "storage.RemoveMuseum"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	commandTag, err := s.DB.ExecContext(ctx, `
		DELETE FROM museums WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	result, err := commandTag.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListMuseums возвращает все карточки музеев, новые первыми.
func (s *Storage) ListMuseums(ctx context.Context) ([]*models.Museum, error) {
	const op = "storage.ListMuseums"
	query := `SELECT uid, name, description, city, address, category, image_url, created_at
			  FROM museums
			  ORDER BY created_at DESC`
	return s.queryMuseums(ctx, op, query)
}

// SearchMuseums ищет музеи по подстроке в названии или городе без учета регистра.
// Это фильтр, а не ранжированный поиск.
func (s *Storage) SearchMuseums(ctx context.Context, search string) ([]*models.Museum, error) {
	const op = "storage.SearchMuseums"
	query := `SELECT uid, name, description, city, address, category, image_url, created_at
			  FROM museums
			  WHERE name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%'
			  ORDER BY created_at DESC`
	return s.queryMuseums(ctx, op, query, search)
}

func (s *Storage) queryMuseums(ctx context.Context, op, query string, args ...any) ([]*models.Museum, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Museum
	for rows.Next() {
		var m models.Museum
		var imageURL sql.NullString
		var createdAt sql.NullTime
		if err = rows.Scan(&m.UID, &m.Name, &m.Description, &m.City,
			&m.Address, &m.Category, &imageURL, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if imageURL.Valid {
			m.ImageURL = imageURL.String
		}
		if createdAt.Valid {
			m.CreatedAt = &createdAt.Time
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
