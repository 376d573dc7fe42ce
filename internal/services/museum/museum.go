// Package services содержит бизнес-логику для управления каталогом музеев и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/museum-directory/internal/models"
	"github.com/magabrotheeeer/museum-directory/internal/storage/repository"
)

// ErrMuseumNotFound возвращается, когда музей с таким UID отсутствует.
var ErrMuseumNotFound = errors.New("museum not found")

// MuseumRepository определяет методы для работы с музеями в хранилище.
type MuseumRepository interface {
	// CreateMuseum добавляет новый музей и возвращает его UID.
	CreateMuseum(ctx context.Context, museum models.Museum) (string, error)
	// ReadMuseum возвращает музей по UID.
	ReadMuseum(ctx context.Context, uid string) (*models.Museum, error)
	// UpdateMuseum обновляет данные музея и возвращает количество затронутых записей.
	UpdateMuseum(ctx context.Context, uid string, museum models.Museum) (int64, error)
	// RemoveMuseum удаляет музей по UID и возвращает количество удаленных записей.
	RemoveMuseum(ctx context.Context, uid string) (int64, error)
	// ListMuseums возвращает все музеи каталога.
	ListMuseums(ctx context.Context) ([]*models.Museum, error)
	// SearchMuseums ищет музеи по подстроке в названии или городе.
	SearchMuseums(ctx context.Context, search string) ([]*models.Museum, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// MuseumService реализует бизнес-логику каталога музеев, включая кеширование
// чтения отдельных карточек.
type MuseumService struct {
	repo  MuseumRepository
	cache Cache
	log   *slog.Logger
}

// NewMuseumService создает новый экземпляр MuseumService.
func NewMuseumService(repo MuseumRepository, cache Cache, log *slog.Logger) *MuseumService {
	return &MuseumService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новую карточку музея, кеширует её и возвращает UID.
func (s *MuseumService) Create(ctx context.Context, req models.DummyMuseum) (string, error) {
	museum := models.Museum{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}

	uid, err := s.repo.CreateMuseum(ctx, museum)
	if err != nil {
		return "", err
	}
	museum.UID = uid

	s.log.Info("created new museum", slog.String("uid", uid))

	cacheKey := museumCacheKey(uid)
	if err := s.cache.Set(cacheKey, museum, time.Hour); err != nil {
		s.log.Warn("failed to cache museum", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return uid, nil
}

// Read возвращает карточку музея по UID, используя кеш или репозиторий.
func (s *MuseumService) Read(ctx context.Context, uid string) (*models.Museum, error) {
	var result *models.Museum
	cacheKey := museumCacheKey(uid)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadMuseum(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuseumNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет карточку музея и инвалидирует кеш.
func (s *MuseumService) Update(ctx context.Context, uid string, req models.DummyMuseum) error {
	museum := models.Museum{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	count, err := s.repo.UpdateMuseum(ctx, uid, museum)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMuseumNotFound
	}

	cacheKey := museumCacheKey(uid)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}

// Remove удаляет карточку музея и инвалидирует кеш.
func (s *MuseumService) Remove(ctx context.Context, uid string) error {
	cacheKey := museumCacheKey(uid)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveMuseum(ctx, uid)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMuseumNotFound
	}
	return nil
}

// List возвращает все музеи каталога.
func (s *MuseumService) List(ctx context.Context) ([]*models.Museum, error) {
	return s.repo.ListMuseums(ctx)
}

// Search ищет музеи по подстроке в названии или городе без учета регистра.
func (s *MuseumService) Search(ctx context.Context, query string) ([]*models.Museum, error) {
	return s.repo.SearchMuseums(ctx, query)
}

func museumCacheKey(uid string) string {
	return fmt.Sprintf("museum:%s", uid)
}
