package server

import (
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// articleSummary is the compact listing shape of the versioned API.
type articleSummary struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// articleDetail adds the content body for single-article reads.
type articleDetail struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// APIListArticles handles GET /api/v1/articles/all
func (s *Server) APIListArticles(c *fiber.Ctx) error {
	total, err := s.articleRepo.Count(c.Context(), "")
	if err != nil {
		return mapServiceError(c, err)
	}
	if total == 0 {
		return c.JSON([]articleSummary{})
	}

	articles, err := s.articleRepo.List(c.Context(), "", int(total), 0)
	if err != nil {
		return mapServiceError(c, err)
	}

	out := make([]articleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleSummary{
			ID:     a.ID,
			Title:  a.Title,
			Author: a.AuthorUsername(),
		})
	}
	return c.JSON(out)
}

// APIGetArticle handles GET /api/v1/articles/detail/:id
func (s *Server) APIGetArticle(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.GetArticle(c.Context(), articleID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(articleDetail{
		ID:      article.ID,
		Title:   article.Title,
		Content: article.Content,
		Author:  article.AuthorUsername(),
	})
}

// APIUpdateArticle handles PUT and PATCH /api/v1/articles/detail/:id.
// PATCH omits fields to leave them unchanged; PUT conventionally sends
// all of them. Both run through the same permission gate as the main
// article routes.
func (s *Server) APIUpdateArticle(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	existing, err := s.articleService.GetArticle(c.Context(), articleID)
	if err != nil {
		return mapServiceError(c, err)
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	content := existing.Content
	if req.Content != nil {
		content = *req.Content
	}

	article, err := s.articleService.UpdateArticle(c.Context(), service.UpdateArticleInput{
		UserID:    currentUserID(c),
		ArticleID: articleID,
		Title:     title,
		Content:   content,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(articleDetail{
		ID:      article.ID,
		Title:   article.Title,
		Content: article.Content,
		Author:  article.AuthorUsername(),
	})
}

// APIDeleteArticle handles DELETE /api/v1/articles/detail/:id
func (s *Server) APIDeleteArticle(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.DeleteArticle(c.Context(), service.DeleteArticleInput{
		UserID:    currentUserID(c),
		ArticleID: articleID,
	}); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
