package service

import (
	"context"
	"strings"
	"testing"

	"chronicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		total   int64
		perPage int
		orphans int
		want    int
	}{
		{"Empty", 0, 5, 1, 1},
		{"One Item", 1, 5, 1, 1},
		{"Exactly One Page", 5, 5, 1, 1},
		{"Orphan Folded Into First Page", 6, 5, 1, 1},
		{"Two Leftovers Make A Second Page", 7, 5, 1, 2},
		{"Ten Items Two Pages", 10, 5, 1, 2},
		{"Eleven Items Orphan Folded", 11, 5, 1, 2},
		{"Twelve Items Three Pages", 12, 5, 1, 3},
		{"No Orphans Six Items", 6, 5, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numPages(tt.total, tt.perPage, tt.orphans))
		})
	}
}

func TestArticleService_ListArticles_OrphanFolding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Six Articles Yield One Page Of Six", func(t *testing.T) {
		var gotLimit, gotOffset int
		repo := noopArticleRepo()
		repo.countFn = func(_ context.Context, _ string) (int64, error) { return 6, nil }
		repo.listFn = func(_ context.Context, _ string, limit, offset int) ([]*models.Article, error) {
			gotLimit, gotOffset = limit, offset
			return make([]*models.Article, limit), nil
		}

		svc := NewArticleService(repo, allowAll)
		page, err := svc.ListArticles(ctx, ListArticlesInput{Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, page.NumPages)
		assert.Equal(t, 6, gotLimit)
		assert.Equal(t, 0, gotOffset)
		assert.Len(t, page.Articles, 6)
		assert.False(t, page.HasNext)
	})

	t.Run("Seven Articles Split Five And Two", func(t *testing.T) {
		repo := noopArticleRepo()
		repo.countFn = func(_ context.Context, _ string) (int64, error) { return 7, nil }

		var limits []int
		repo.listFn = func(_ context.Context, _ string, limit, offset int) ([]*models.Article, error) {
			limits = append(limits, limit)
			return make([]*models.Article, limit), nil
		}

		svc := NewArticleService(repo, allowAll)

		first, err := svc.ListArticles(ctx, ListArticlesInput{Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, first.NumPages)
		assert.True(t, first.HasNext)

		second, err := svc.ListArticles(ctx, ListArticlesInput{Page: 2})
		require.NoError(t, err)
		assert.True(t, second.HasPrev)
		assert.Equal(t, []int{5, 2}, limits)
	})

	t.Run("Out Of Range Page Is Not Found", func(t *testing.T) {
		repo := noopArticleRepo()
		repo.countFn = func(_ context.Context, _ string) (int64, error) { return 7, nil }

		svc := NewArticleService(repo, allowAll)
		_, err := svc.ListArticles(ctx, ListArticlesInput{Page: 3})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("Empty Listing Page One Is Valid", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), allowAll)
		page, err := svc.ListArticles(ctx, ListArticlesInput{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Empty(t, page.Articles)
	})

	t.Run("Search Term Is Trimmed And Passed Through", func(t *testing.T) {
		var gotSearch string
		repo := noopArticleRepo()
		repo.countFn = func(_ context.Context, search string) (int64, error) {
			gotSearch = search
			return 2, nil
		}
		repo.listFn = func(_ context.Context, search string, limit, offset int) ([]*models.Article, error) {
			return make([]*models.Article, 2), nil
		}

		svc := NewArticleService(repo, allowAll)
		page, err := svc.ListArticles(ctx, ListArticlesInput{Search: "  gopher  "})
		require.NoError(t, err)
		assert.Equal(t, "gopher", gotSearch)
		assert.Equal(t, "gopher", page.Search)
	})
}

func TestArticleService_CreateArticle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Denied Without Permission", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), denyAll)
		_, err := svc.CreateArticle(ctx, CreateArticleInput{
			UserID: 1, Title: "Valid title", Content: "body",
		})
		assertForbiddenError(t, err)
	})

	t.Run("Title Too Short", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), allowAll)
		_, err := svc.CreateArticle(ctx, CreateArticleInput{UserID: 1, Title: "abcd", Content: "body"})
		assertValidationError(t, err)
	})

	t.Run("Title Too Long", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), allowAll)
		_, err := svc.CreateArticle(ctx, CreateArticleInput{
			UserID: 1, Title: strings.Repeat("x", 121), Content: "body",
		})
		assertValidationError(t, err)
	})

	t.Run("Content Too Long", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), allowAll)
		_, err := svc.CreateArticle(ctx, CreateArticleInput{
			UserID: 1, Title: "Valid title", Content: strings.Repeat("x", 3001),
		})
		assertValidationError(t, err)
	})

	t.Run("Limits Count Characters Not Bytes", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), allowAll)

		// 120 Cyrillic characters are 240 bytes but still a legal title,
		// and 3000 of them a legal body.
		_, err := svc.CreateArticle(ctx, CreateArticleInput{
			UserID:  1,
			Title:   strings.Repeat("ж", 120),
			Content: strings.Repeat("ж", 3000),
		})
		require.NoError(t, err)

		// Four characters stay too short no matter how many bytes.
		_, err = svc.CreateArticle(ctx, CreateArticleInput{
			UserID: 1, Title: "жжжж", Content: "body",
		})
		assertValidationError(t, err)

		_, err = svc.CreateArticle(ctx, CreateArticleInput{
			UserID: 1, Title: strings.Repeat("ж", 121), Content: "body",
		})
		assertValidationError(t, err)
	})

	t.Run("Success Sets Author And Cleans Tags", func(t *testing.T) {
		var gotTags []string
		var gotAuthor *uint
		repo := noopArticleRepo()
		repo.createWithTagsFn = func(_ context.Context, a *models.Article, tags []string) error {
			a.ID = 7
			gotTags = tags
			gotAuthor = a.AuthorID
			return nil
		}

		svc := NewArticleService(repo, allowAll)
		article, err := svc.CreateArticle(ctx, CreateArticleInput{
			UserID:  3,
			Title:   "Going concurrent",
			Content: "channels all the way down",
			Tags:    []string{" go ", "", "go", "concurrency"},
		})
		require.NoError(t, err)
		assert.Equal(t, uint(7), article.ID)
		assert.Equal(t, []string{"go", "concurrency"}, gotTags)
		require.NotNil(t, gotAuthor)
		assert.Equal(t, uint(3), *gotAuthor)
	})
}

func TestArticleService_UpdateArticle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Missing Article Is Not Found Before Gate", func(t *testing.T) {
		repo := noopArticleRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Article, error) {
			return nil, models.NewNotFoundError("Article", id)
		}

		gateCalled := false
		svc := NewArticleService(repo, func(_ context.Context, _ uint, _ string, _ *models.Article) (bool, error) {
			gateCalled = true
			return true, nil
		})

		_, err := svc.UpdateArticle(ctx, UpdateArticleInput{UserID: 1, ArticleID: 99, Title: "Valid title", Content: "body"})
		require.Error(t, err)
		assert.False(t, gateCalled)
	})

	t.Run("Denied Without Permission", func(t *testing.T) {
		svc := NewArticleService(noopArticleRepo(), denyAll)
		_, err := svc.UpdateArticle(ctx, UpdateArticleInput{UserID: 1, ArticleID: 2, Title: "Valid title", Content: "body"})
		assertForbiddenError(t, err)
	})

	t.Run("Gate Receives The Loaded Article", func(t *testing.T) {
		authorID := uint(5)
		repo := noopArticleRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Article, error) {
			return &models.Article{ID: id, Title: "Old title", Content: "old", AuthorID: &authorID}, nil
		}

		var gateArticle *models.Article
		svc := NewArticleService(repo, func(_ context.Context, _ uint, _ string, a *models.Article) (bool, error) {
			gateArticle = a
			return true, nil
		})

		_, err := svc.UpdateArticle(ctx, UpdateArticleInput{UserID: 5, ArticleID: 2, Title: "New title", Content: "new"})
		require.NoError(t, err)
		require.NotNil(t, gateArticle)
		assert.Equal(t, uint(2), gateArticle.ID)
	})

	t.Run("Nil Tags Leave Tag Set Alone", func(t *testing.T) {
		var gotTags []string
		tagsSeen := false
		repo := noopArticleRepo()
		repo.updateWithTagsFn = func(_ context.Context, _ *models.Article, tags []string) error {
			gotTags = tags
			tagsSeen = true
			return nil
		}

		svc := NewArticleService(repo, allowAll)
		_, err := svc.UpdateArticle(ctx, UpdateArticleInput{UserID: 1, ArticleID: 2, Title: "Valid title", Content: "body"})
		require.NoError(t, err)
		assert.True(t, tagsSeen)
		assert.Nil(t, gotTags)
	})
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Denied Without Permission", func(t *testing.T) {
		deleted := false
		repo := noopArticleRepo()
		repo.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}

		svc := NewArticleService(repo, denyAll)
		err := svc.DeleteArticle(ctx, DeleteArticleInput{UserID: 1, ArticleID: 2})
		assertForbiddenError(t, err)
		assert.False(t, deleted)
	})

	t.Run("Success", func(t *testing.T) {
		var deletedID uint
		repo := noopArticleRepo()
		repo.deleteFn = func(_ context.Context, id uint) error {
			deletedID = id
			return nil
		}

		svc := NewArticleService(repo, allowAll)
		err := svc.DeleteArticle(ctx, DeleteArticleInput{UserID: 1, ArticleID: 2})
		require.NoError(t, err)
		assert.Equal(t, uint(2), deletedID)
	})
}
