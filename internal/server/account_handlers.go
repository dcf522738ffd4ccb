package server

import (
	"io"

	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyAccount handles GET /api/accounts/profile
func (s *Server) GetMyAccount(c *fiber.Ctx) error {
	user, err := s.accountService.GetAccount(c.Context(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":       user,
		"avatar_url": service.AvatarURL(user.Profile),
	})
}

// UpdateMyAccount handles PUT /api/accounts/profile. The account and
// profile halves of the form are validated together and saved together;
// the edit always targets the session user.
func (s *Server) UpdateMyAccount(c *fiber.Ctx) error {
	var req struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		BirthDate string `json:"birth_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.UpdateAccount(c.Context(), service.UpdateAccountInput{
		UserID:    currentUserID(c),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":       user,
		"avatar_url": service.AvatarURL(user.Profile),
	})
}

// UploadAvatar handles PUT /api/accounts/profile/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Avatar file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	profile, err := s.avatarService.Upload(c.Context(), service.UploadAvatarInput{
		UserID:      currentUserID(c),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":    profile,
		"avatar_url": service.AvatarURL(profile),
	})
}

// ChangePassword handles POST /api/accounts/change-password. On success
// the presented token is revoked and a fresh one returned so the session
// survives the credential change.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword        string `json:"old_password"`
		NewPassword        string `json:"new_password"`
		NewPasswordConfirm string `json:"new_password_confirm"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	if err := s.accountService.ChangePassword(c.Context(), service.ChangePasswordInput{
		UserID:             userID,
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	}); err != nil {
		return mapServiceError(c, err)
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	s.revokePresentedToken(c)
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"message": "Password changed",
		"token":   token,
	})
}

// GetUserDetail handles GET /api/accounts/:id
func (s *Server) GetUserDetail(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.accountService.GetUserDetail(c.Context(), userID, c.QueryInt("page", 1))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":       detail.User,
		"avatar_url": service.AvatarURL(detail.User.Profile),
		"articles":   detail.Articles,
		"page":       detail.Page,
		"num_pages":  detail.NumPages,
		"total":      detail.Total,
	})
}

// ServeAvatar handles GET /media/avatars/:file
func (s *Server) ServeAvatar(c *fiber.Ctx) error {
	path, err := s.avatarService.ResolveAvatarPath(c.Params("file"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.SendFile(path)
}
