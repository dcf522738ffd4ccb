// Package service implements the application's business logic on top of
// the repository layer. Services stay free of HTTP concerns so they can
// be exercised directly in tests.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

// Listing shows 5 articles per page. A trailing page that would carry a
// single leftover article is folded into the previous page instead.
const (
	ArticlesPerPage = 5
	ArticleOrphans  = 1
)

// CanFunc decides whether a user may perform an action, optionally in the
// context of an existing article.
type CanFunc func(ctx context.Context, userID uint, action string, article *models.Article) (bool, error)

type ArticleService struct {
	articleRepo repository.ArticleRepository
	can         CanFunc
}

func NewArticleService(articleRepo repository.ArticleRepository, can CanFunc) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		can:         can,
	}
}

type ListArticlesInput struct {
	Search string
	Page   int
}

// ArticlePage is one page of the article listing.
type ArticlePage struct {
	Articles []*models.Article `json:"articles"`
	Page     int               `json:"page"`
	NumPages int               `json:"num_pages"`
	Total    int64             `json:"total"`
	HasNext  bool              `json:"has_next"`
	HasPrev  bool              `json:"has_prev"`
	Search   string            `json:"search,omitempty"`
}

type CreateArticleInput struct {
	UserID  uint
	Title   string
	Content string
	Tags    []string
}

type UpdateArticleInput struct {
	UserID    uint
	ArticleID uint
	Title     string
	Content   string
	// Tags replaces the article's tag set when non-nil. A nil slice
	// leaves the existing tags untouched.
	Tags []string
}

type DeleteArticleInput struct {
	UserID    uint
	ArticleID uint
}

// numPages computes the page count with orphan folding: leftover items up
// to the orphan allowance are absorbed by the previous page.
func numPages(total int64, perPage, orphans int) int {
	if total <= 0 {
		return 1
	}
	hits := total - int64(orphans)
	if hits < 1 {
		return 1
	}
	pages := int((hits + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ListArticles returns one page of articles ordered by title ascending,
// then creation time descending. An out-of-range page is a not-found
// condition, matching how a missing detail id behaves.
func (s *ArticleService) ListArticles(ctx context.Context, in ListArticlesInput) (*ArticlePage, error) {
	search := strings.TrimSpace(in.Search)

	total, err := s.articleRepo.Count(ctx, search)
	if err != nil {
		return nil, err
	}

	pages := numPages(total, ArticlesPerPage, ArticleOrphans)

	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 1 || page > pages {
		return nil, models.NewNotFoundError("Page", page)
	}

	offset := (page - 1) * ArticlesPerPage
	limit := ArticlesPerPage
	if page == pages {
		// Final page takes everything that is left, including orphans.
		limit = int(total) - offset
	}
	if limit < 0 {
		limit = 0
	}

	var articles []*models.Article
	if limit > 0 {
		articles, err = s.articleRepo.List(ctx, search, limit, offset)
		if err != nil {
			return nil, err
		}
	}

	return &ArticlePage{
		Articles: articles,
		Page:     page,
		NumPages: pages,
		Total:    total,
		HasNext:  page < pages,
		HasPrev:  page > 1,
		Search:   search,
	}, nil
}

func (s *ArticleService) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// validateArticleFields enforces the column limits. Limits count
// characters, not bytes, so multibyte text is measured in runes.
func validateArticleFields(title, content string) error {
	if utf8.RuneCountInString(title) < models.ArticleTitleMinLen {
		return models.NewValidationError("Title must be at least 5 characters")
	}
	if utf8.RuneCountInString(title) > models.ArticleTitleMaxLen {
		return models.NewValidationError("Title must not exceed 120 characters")
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > models.ArticleContentMaxLen {
		return models.NewValidationError("Content must not exceed 3000 characters")
	}
	return nil
}

// cleanTags trims each tag and drops empties, preserving order and
// first-seen uniqueness.
func cleanTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	allowed, err := s.can(ctx, in.UserID, models.PermAddArticle, nil)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbiddenError("You do not have permission to create articles")
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if err := validateArticleFields(title, content); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:    title,
		Content:  content,
		AuthorID: &in.UserID,
	}
	if err := s.articleRepo.CreateWithTags(ctx, article, cleanTags(in.Tags)); err != nil {
		return nil, err
	}

	return s.articleRepo.GetByID(ctx, article.ID)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.can(ctx, in.UserID, models.PermChangeArticle, article)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbiddenError("You do not have permission to update this article")
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if err := validateArticleFields(title, content); err != nil {
		return nil, err
	}

	article.Title = title
	article.Content = content
	if err := s.articleRepo.UpdateWithTags(ctx, article, cleanTags(in.Tags)); err != nil {
		return nil, err
	}

	return s.articleRepo.GetByID(ctx, article.ID)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, in DeleteArticleInput) error {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return err
	}

	allowed, err := s.can(ctx, in.UserID, models.PermDeleteArticle, article)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbiddenError("You do not have permission to delete this article")
	}

	return s.articleRepo.Delete(ctx, in.ArticleID)
}
