package service

import (
	"context"
	"testing"

	"chronicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// articleRepoStub is a stub for repository.ArticleRepository.
type articleRepoStub struct {
	createWithTagsFn func(context.Context, *models.Article, []string) error
	getByIDFn        func(context.Context, uint) (*models.Article, error)
	listFn           func(context.Context, string, int, int) ([]*models.Article, error)
	countFn          func(context.Context, string) (int64, error)
	listByAuthorFn   func(context.Context, uint, int, int) ([]*models.Article, error)
	countByAuthorFn  func(context.Context, uint) (int64, error)
	updateWithTagsFn func(context.Context, *models.Article, []string) error
	deleteFn         func(context.Context, uint) error
}

func (s *articleRepoStub) CreateWithTags(ctx context.Context, a *models.Article, tags []string) error {
	return s.createWithTagsFn(ctx, a, tags)
}
func (s *articleRepoStub) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	return s.getByIDFn(ctx, id)
}
func (s *articleRepoStub) List(ctx context.Context, search string, limit, offset int) ([]*models.Article, error) {
	return s.listFn(ctx, search, limit, offset)
}
func (s *articleRepoStub) Count(ctx context.Context, search string) (int64, error) {
	return s.countFn(ctx, search)
}
func (s *articleRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Article, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *articleRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *articleRepoStub) UpdateWithTags(ctx context.Context, a *models.Article, tags []string) error {
	return s.updateWithTagsFn(ctx, a, tags)
}
func (s *articleRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		createWithTagsFn: func(_ context.Context, a *models.Article, _ []string) error {
			a.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Article, error) {
			return &models.Article{ID: id, Title: "A fine title", Content: "body"}, nil
		},
		listFn: func(_ context.Context, _ string, _, _ int) ([]*models.Article, error) {
			return nil, nil
		},
		countFn:          func(_ context.Context, _ string) (int64, error) { return 0, nil },
		listByAuthorFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.Article, error) { return nil, nil },
		countByAuthorFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateWithTagsFn: func(_ context.Context, _ *models.Article, _ []string) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByArticleFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	return s.listByArticleFn(ctx, articleID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByArticleFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByIDWithProfileFn func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	getPasswordHashFn    func(context.Context, uint) (string, error)
	createWithProfileFn  func(context.Context, *models.User, *models.Profile) error
	updateFn             func(context.Context, *models.User) error
	updateWithProfileFn  func(context.Context, *models.User, *models.Profile) error
	deleteFn             func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithProfileFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetPasswordHash(ctx context.Context, id uint) (string, error) {
	return s.getPasswordHashFn(ctx, id)
}
func (s *userRepoStub) CreateWithProfile(ctx context.Context, u *models.User, p *models.Profile) error {
	return s.createWithProfileFn(ctx, u, p)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}
func (s *userRepoStub) UpdateWithProfile(ctx context.Context, u *models.User, p *models.Profile) error {
	return s.updateWithProfileFn(ctx, u, p)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice"}, nil
		},
		getByIDWithProfileFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", Email: "alice@example.com", Profile: &models.Profile{UserID: id}}, nil
		},
		getByEmailFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getPasswordHashFn: func(_ context.Context, _ uint) (string, error) { return "", nil },
		createWithProfileFn: func(_ context.Context, u *models.User, p *models.Profile) error {
			u.ID = 1
			p.UserID = 1
			return nil
		},
		updateFn:            func(_ context.Context, _ *models.User) error { return nil },
		updateWithProfileFn: func(_ context.Context, _ *models.User, _ *models.Profile) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
	}
}

// permRepoStub is a stub for repository.PermissionRepository.
type permRepoStub struct {
	hasPermissionFn   func(context.Context, uint, string) (bool, error)
	grantFn           func(context.Context, uint, ...string) error
	ensureCodenamesFn func(context.Context, ...string) error
}

func (s *permRepoStub) HasPermission(ctx context.Context, userID uint, codename string) (bool, error) {
	return s.hasPermissionFn(ctx, userID, codename)
}
func (s *permRepoStub) Grant(ctx context.Context, userID uint, codenames ...string) error {
	return s.grantFn(ctx, userID, codenames...)
}
func (s *permRepoStub) EnsureCodenames(ctx context.Context, codenames ...string) error {
	return s.ensureCodenamesFn(ctx, codenames...)
}

func noopPermRepo() *permRepoStub {
	return &permRepoStub{
		hasPermissionFn:   func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
		grantFn:           func(_ context.Context, _ uint, _ ...string) error { return nil },
		ensureCodenamesFn: func(_ context.Context, _ ...string) error { return nil },
	}
}

func allowAll(_ context.Context, _ uint, _ string, _ *models.Article) (bool, error) {
	return true, nil
}

func denyAll(_ context.Context, _ uint, _ string, _ *models.Article) (bool, error) {
	return false, nil
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}
