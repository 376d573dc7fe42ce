package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/museum-directory/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
//
// Дубликат email отлавливается по нарушению уникального индекса
// и возвращается как ErrUserExists. Гонка двух конкурентных регистраций
// с одним email разрешается самим индексом, а не проверкой в приложении.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, email, password_hash, phone, address, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.Address,
		user.Role).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email (в нижнем регистре).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, phone, address, role, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, phone, address, role, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UpdateUserProfile частично обновляет профиль пользователя и возвращает
// обновленную запись. Пустые значения полей оставляют сохраненные данные
// без изменений. Email, пароль и роль этим запросом недостижимы.
func (s *Storage) UpdateUserProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name    = COALESCE(NULLIF($1, ''), name),
			      phone   = COALESCE(NULLIF($2, ''), phone),
			      address = COALESCE(NULLIF($3, ''), address)
			  WHERE uid = $4
			  RETURNING uid, name, email, password_hash, phone, address, role, created_at`
	return s.scanUser(s.DB.QueryRowContext(ctx, query,
		upd.Name, upd.Phone, upd.Address, userUID), op)
}

// UpdatePasswordHash перезаписывает хэш пароля пользователя.
func (s *Storage) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE uid = $2`
	commandTag, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := commandTag.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var phone, address sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&phone, &address, &u.Role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	if address.Valid {
		u.Address = address.String
	}
	if createdAt.Valid {
		u.CreatedAt = &createdAt.Time
	}
	return u, nil
}
