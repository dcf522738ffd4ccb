package repository

import (
	"context"
	"errors"

	"chronicle/internal/cache"
	"chronicle/internal/models"

	"gorm.io/gorm"
)

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	CreateWithTags(ctx context.Context, article *models.Article, tagNames []string) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.Article, error)
	Count(ctx context.Context, search string) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Article, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	UpdateWithTags(ctx context.Context, article *models.Article, tagNames []string) error
	Delete(ctx context.Context, id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository returns a new ArticleRepository implementation.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// CreateWithTags inserts the article first, then resolves each tag name with
// FirstOrCreate and links it. Everything runs in one transaction so a partial
// tag failure rolls back the article too.
func (r *articleRepository) CreateWithTags(ctx context.Context, article *models.Article, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(article).Association("Tags").Append(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

// applySearch narrows the query to articles whose title, content or author
// username contains the term, case-insensitively. Articles whose author was
// deleted keep matching on title and content through the left join.
func applySearch(db *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return db
	}
	pattern := "%" + search + "%"
	return db.
		Joins("LEFT JOIN users ON users.id = articles.author_id").
		Where("articles.title ILIKE ? OR articles.content ILIKE ? OR users.username ILIKE ?",
			pattern, pattern, pattern)
}

func (r *articleRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	q := applySearch(r.db.WithContext(ctx).Model(&models.Article{}), search)
	if err := q.
		Preload("Author").
		Preload("Tags").
		Order("articles.title ASC, articles.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) Count(ctx context.Context, search string) (int64, error) {
	var count int64
	q := applySearch(r.db.WithContext(ctx).Model(&models.Article{}), search)
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	if err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("author_id = ?", authorID).
		Order("title ASC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// UpdateWithTags saves the article and replaces its tag set in one
// transaction. A nil tagNames leaves the existing tags untouched.
func (r *articleRepository) UpdateWithTags(ctx context.Context, article *models.Article, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(article).Error; err != nil {
			return err
		}
		if tagNames == nil {
			return nil
		}
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		return tx.Model(article).Association("Tags").Replace(tags)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.ID)
	return nil
}

// Delete removes the article row. Comments and tag links go with it through
// the ON DELETE CASCADE constraints.
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Article{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, id)
	return nil
}

func resolveTags(tx *gorm.DB, tagNames []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag := &models.Tag{Tag: name}
		if err := tx.Where("tag = ?", name).FirstOrCreate(tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
