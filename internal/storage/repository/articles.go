package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/museum-directory/internal/models"
)

// CreateArticle сохраняет новую статью и возвращает её UID.
func (s *Storage) CreateArticle(ctx context.Context, article models.Article) (string, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO articles (title, content, image_url)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		article.Title, article.Content, article.ImageURL).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ReadArticle возвращает статью по UID.
func (s *Storage) ReadArticle(ctx context.Context, uid string) (*models.Article, error) {
	const op = "storage.ReadArticle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, title, content, image_url, created_at, updated_at
			  FROM articles
			  WHERE uid = $1`
	a := &models.Article{}
	var imageURL sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(&a.UID, &a.Title,
		&a.Content, &imageURL, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if imageURL.Valid {
		a.ImageURL = imageURL.String
	}
	if createdAt.Valid {
		a.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}
	return a, nil
}

// UpdateArticle обновляет статью по UID и возвращает количество затронутых записей.
func (s *Storage) UpdateArticle(ctx context.Context, uid string, article models.Article) (int64, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	commandTag, err := s.DB.ExecContext(ctx, `
		UPDATE articles
		SET title = $1, content = $2, image_url = $3, updated_at = now()
		WHERE uid = $4`,
		article.Title, article.Content, article.ImageURL, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	result, err := commandTag.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveArticle удаляет статью по UID и возвращает количество удаленных записей.
func (s *Storage) RemoveArticle(ctx context.Context, uid string) (int64, error) {
	const op = "storage.RemoveArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	commandTag, err := s.DB.ExecContext(ctx, `
		DELETE FROM articles WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	result, err := commandTag.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListArticles возвращает все статьи, новые первыми.
func (s *Storage) ListArticles(ctx context.Context) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, title, content, image_url, created_at, updated_at
			  FROM articles
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Article
	for rows.Next() {
		var a models.Article
		var imageURL sql.NullString
		var createdAt, updatedAt sql.NullTime
		if err = rows.Scan(&a.UID, &a.Title, &a.Content, &imageURL,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if imageURL.Valid {
			a.ImageURL = imageURL.String
		}
		if createdAt.Valid {
			a.CreatedAt = &createdAt.Time
		}
		if updatedAt.Valid {
			a.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
