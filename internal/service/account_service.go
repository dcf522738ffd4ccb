package service

import (
	"context"
	"strings"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// A user's article history on the detail page shows 5 per page with no
// orphan folding.
const UserArticlesPerPage = 5

// BirthDateLayout is the wire format for profile birth dates.
const BirthDateLayout = "2006-01-02"

type AccountService struct {
	userRepo    repository.UserRepository
	articleRepo repository.ArticleRepository
	permRepo    repository.PermissionRepository
}

func NewAccountService(
	userRepo repository.UserRepository,
	articleRepo repository.ArticleRepository,
	permRepo repository.PermissionRepository,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		articleRepo: articleRepo,
		permRepo:    permRepo,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	BirthDate       string
}

type UpdateAccountInput struct {
	UserID    uint
	Email     string
	FirstName string
	LastName  string
	BirthDate string
}

type ChangePasswordInput struct {
	UserID             uint
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}

// UserDetail bundles a user with one page of their authored articles.
type UserDetail struct {
	User     *models.User      `json:"user"`
	Articles []*models.Article `json:"articles"`
	Page     int               `json:"page"`
	NumPages int               `json:"num_pages"`
	Total    int64             `json:"total"`
}

func parseBirthDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(BirthDateLayout, s)
	if err != nil {
		return nil, models.NewValidationError("Birth date must be in YYYY-MM-DD format")
	}
	return &t, nil
}

// Register creates the user and its profile atomically and grants the
// default permission set to the new account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.PasswordConfirm {
		return nil, models.NewValidationError("Passwords do not match")
	}

	birthDate, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}
	existing, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hashed),
	}
	profile := &models.Profile{BirthDate: birthDate}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}

	if err := s.permRepo.Grant(ctx, user.ID, models.DefaultPermissions...); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AccountService) GetAccount(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByIDWithProfile(ctx, userID)
}

// UpdateAccount edits the account and profile halves of a user in one
// submission. Field errors from both halves are collected into a single
// response so the client can render every problem at once; nothing is
// persisted unless both halves validate.
func (s *AccountService) UpdateAccount(ctx context.Context, in UpdateAccountInput) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string)

	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields["email"] = "Email is required"
	} else if err := validation.ValidateEmail(email); err != nil {
		fields["email"] = err.Error()
	}

	birthDate, bdErr := parseBirthDate(in.BirthDate)
	if bdErr != nil {
		fields["birth_date"] = "Birth date must be in YYYY-MM-DD format"
	}

	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	user.Email = email
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)

	profile := user.Profile
	if profile == nil {
		return nil, models.NewNotFoundError("Profile for user", in.UserID)
	}
	profile.BirthDate = birthDate

	if err := s.userRepo.UpdateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}

	return s.userRepo.GetByIDWithProfile(ctx, in.UserID)
}

// ChangePassword verifies the current password and stores a new hash.
// Mismatches surface as field errors, mirroring the profile edit flow.
func (s *AccountService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	// The user read may be cache-served and carry no hash, so the
	// comparison loads the stored hash directly.
	currentHash, err := s.userRepo.GetPasswordHash(ctx, in.UserID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(in.OldPassword)) != nil {
		return models.NewFieldValidationError(map[string]string{
			"old_password": "Incorrect current password",
		})
	}
	if in.NewPassword != in.NewPasswordConfirm {
		return models.NewFieldValidationError(map[string]string{
			"new_password": "Passwords do not match",
		})
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewFieldValidationError(map[string]string{
			"new_password": err.Error(),
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// GetUserDetail returns a public view of a user together with one page of
// their authored articles.
func (s *AccountService) GetUserDetail(ctx context.Context, userID uint, page int) (*UserDetail, error) {
	user, err := s.userRepo.GetByIDWithProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.articleRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	pages := numPages(total, UserArticlesPerPage, 0)
	if page == 0 {
		page = 1
	}
	if page < 1 || page > pages {
		return nil, models.NewNotFoundError("Page", page)
	}

	articles, err := s.articleRepo.ListByAuthor(ctx, userID, UserArticlesPerPage, (page-1)*UserArticlesPerPage)
	if err != nil {
		return nil, err
	}

	return &UserDetail{
		User:     user,
		Articles: articles,
		Page:     page,
		NumPages: pages,
		Total:    total,
	}, nil
}
