// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"chronicle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var tagPool = []string{
	"go", "web", "databases", "testing", "devops", "cloud", "security",
	"performance", "tooling", "opinion", "tutorial", "release-notes",
	"concurrency", "networking", "observability",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User` with its
// profile. Optional override functions may modify the generated user
// before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	birthDate := gofakeit.DateRange(
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
	)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  string(hashedPassword),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Profile: &models.Profile{
			BirthDate: &birthDate,
		},
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildArticle constructs an article struct for the given author but
// does not persist it. The generated title and content always satisfy
// the article length rules.
func (f *Factory) BuildArticle(author *models.User, overrides ...func(*models.Article)) *models.Article {
	title := gofakeit.Sentence(f.r.Intn(6) + 3)
	title = strings.TrimSuffix(title, ".")
	if len(title) > models.ArticleTitleMaxLen {
		title = title[:models.ArticleTitleMaxLen]
	}
	for len(title) < models.ArticleTitleMinLen {
		title += " revisited"
	}

	content := gofakeit.Paragraph(1, f.r.Intn(4)+2, 8, "\n")
	if len(content) > models.ArticleContentMaxLen {
		content = content[:models.ArticleContentMaxLen]
	}

	article := &models.Article{
		Title:    title,
		Content:  content,
		AuthorID: &author.ID,
		// realistic created_at spread over the last 90 days
		CreatedAt: time.Now().Add(-time.Duration(f.r.Intn(90*24)) * time.Hour),
	}

	for _, override := range overrides {
		override(article)
	}
	return article
}

// CreateArticle constructs and persists a sample `models.Article`
// authored by the given user, with a random set of tags attached.
func (f *Factory) CreateArticle(author *models.User, overrides ...func(*models.Article)) (*models.Article, error) {
	article := f.BuildArticle(author, overrides...)

	if err := f.db.Create(article).Error; err != nil {
		return nil, err
	}

	tags, err := f.randomTags(f.r.Intn(4))
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := f.db.Model(article).Association("Tags").Append(tags); err != nil {
			return nil, err
		}
	}
	return article, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided article authored by the provided user.
func (f *Factory) CreateComment(author *models.User, article *models.Article, overrides ...func(*models.Comment)) (*models.Comment, error) {
	body := gofakeit.Sentence(f.r.Intn(10) + 3)
	if len(body) > models.CommentMaxLen {
		body = body[:models.CommentMaxLen]
	}

	comment := &models.Comment{
		Comment:   body,
		ArticleID: article.ID,
		AuthorID:  &author.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) randomTags(count int) ([]*models.Tag, error) {
	picked := map[string]bool{}
	tags := make([]*models.Tag, 0, count)
	for len(tags) < count {
		name := tagPool[f.r.Intn(len(tagPool))]
		if picked[name] {
			continue
		}
		picked[name] = true

		var tag models.Tag
		if err := f.db.Where("tag = ?", name).
			FirstOrCreate(&tag, models.Tag{Tag: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, nil
}
