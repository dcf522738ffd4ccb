package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	can         CanFunc
}

type CreateCommentInput struct {
	UserID    uint
	ArticleID uint
	Comment   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	articleRepo repository.ArticleRepository,
	can CanFunc,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		can:         can,
	}
}

// CreateComment attaches a comment to an article. The article and author
// references come from the URL and the session, never from the request
// body.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	allowed, err := s.can(ctx, in.UserID, models.PermAddComment, nil)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbiddenError("You do not have permission to comment")
	}

	if _, err := s.articleRepo.GetByID(ctx, in.ArticleID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Comment)
	if text == "" {
		return nil, models.NewValidationError("Comment is required")
	}
	// Character limit, so multibyte text is measured in runes.
	if utf8.RuneCountInString(text) > models.CommentMaxLen {
		return nil, models.NewValidationError("Comment must not exceed 200 characters")
	}

	comment := &models.Comment{
		ArticleID: in.ArticleID,
		Comment:   text,
		AuthorID:  &in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByArticle(ctx, articleID)
}
