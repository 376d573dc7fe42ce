// Package services содержит бизнес-логику для управления новостными статьями.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/museum-directory/internal/models"
	"github.com/magabrotheeeer/museum-directory/internal/storage/repository"
)

// ErrArticleNotFound возвращается, когда статья с таким UID отсутствует.
var ErrArticleNotFound = errors.New("article not found")

// ArticleRepository определяет методы для работы со статьями в хранилище.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article models.Article) (string, error)
	ReadArticle(ctx context.Context, uid string) (*models.Article, error)
	UpdateArticle(ctx context.Context, uid string, article models.Article) (int64, error)
	RemoveArticle(ctx context.Context, uid string) (int64, error)
	ListArticles(ctx context.Context) ([]*models.Article, error)
}

// ArticleService реализует бизнес-логику новостных статей.
type ArticleService struct {
	repo ArticleRepository
	log  *slog.Logger
}

// NewArticleService создает новый экземпляр ArticleService.
func NewArticleService(repo ArticleRepository, log *slog.Logger) *ArticleService {
	return &ArticleService{
		repo: repo,
		log:  log,
	}
}

// Create создает новую статью и возвращает её UID.
func (s *ArticleService) Create(ctx context.Context, req models.DummyArticle) (string, error) {
	article := models.Article{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	uid, err := s.repo.CreateArticle(ctx, article)
	if err != nil {
		return "", err
	}
	s.log.Info("created new article", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает статью по UID.
func (s *ArticleService) Read(ctx context.Context, uid string) (*models.Article, error) {
	article, err := s.repo.ReadArticle(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

// Update обновляет статью по UID.
func (s *ArticleService) Update(ctx context.Context, uid string, req models.DummyArticle) error {
	article := models.Article{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	count, err := s.repo.UpdateArticle(ctx, uid, article)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// Remove удаляет статью по UID.
func (s *ArticleService) Remove(ctx context.Context, uid string) error {
	count, err := s.repo.RemoveArticle(ctx, uid)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// List возвращает все статьи, новые первыми.
func (s *ArticleService) List(ctx context.Context) ([]*models.Article, error) {
	return s.repo.ListArticles(ctx)
}
