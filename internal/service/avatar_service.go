package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"chronicle/internal/config"
	"chronicle/internal/models"
	"chronicle/internal/repository"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaDir        = "/tmp/chronicle/media"
	DefaultAvatarMaxSizeMB = 5
	AvatarSize             = 256
	AvatarJPEGQuality      = 85
	avatarSubdir           = "avatars"
)

type UploadAvatarInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// AvatarService normalizes uploaded avatars to a square JPEG of fixed
// size and records the stored filename on the user's profile.
type AvatarService struct {
	profileRepo        repository.ProfileRepository
	mediaDir           string
	maxUploadSizeBytes int64
}

func NewAvatarService(profileRepo repository.ProfileRepository, cfg *config.Config) *AvatarService {
	mediaDir := DefaultMediaDir
	maxUploadMB := DefaultAvatarMaxSizeMB

	if cfg != nil {
		if cfg.MediaDir != "" {
			mediaDir = cfg.MediaDir
		}
		if cfg.AvatarMaxUploadMB > 0 {
			maxUploadMB = cfg.AvatarMaxUploadMB
		}
	}

	return &AvatarService{
		profileRepo:        profileRepo,
		mediaDir:           mediaDir,
		maxUploadSizeBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

func (s *AvatarService) Upload(ctx context.Context, in UploadAvatarInput) (*models.Profile, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedAvatarMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	normalized := resizeSquare(cropCenterSquare(decoded), AvatarSize)

	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, normalized, &jpeg.Options{Quality: AvatarJPEGQuality}); err != nil {
		return nil, models.NewInternalError(err)
	}

	filename := uuid.New().String() + ".jpg"
	rel := filepath.ToSlash(filepath.Join(avatarSubdir, filename))
	abs := filepath.Join(s.mediaDir, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o600); err != nil {
		return nil, models.NewInternalError(err)
	}

	old := profile.Avatar
	profile.Avatar = rel
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		_ = os.Remove(abs)
		return nil, err
	}

	// Best effort: the new avatar is already live.
	if old != "" && old != rel {
		_ = os.Remove(filepath.Join(s.mediaDir, filepath.FromSlash(old)))
	}

	return profile, nil
}

// ResolveAvatarPath maps a stored avatar filename to a path on disk,
// rejecting anything that could escape the avatar directory.
func (s *AvatarService) ResolveAvatarPath(filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return "", models.NewValidationError("Invalid avatar filename")
	}
	full := filepath.Join(s.mediaDir, avatarSubdir, filename)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Avatar", filename)
		}
		return "", models.NewInternalError(err)
	}
	return full, nil
}

// AvatarURL returns the public URL for a stored avatar path, or "" when
// the profile has none.
func AvatarURL(profile *models.Profile) string {
	if profile == nil || profile.Avatar == "" {
		return ""
	}
	return "/media/" + profile.Avatar
}

func isAllowedAvatarMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func cropCenterSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}
	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Copy(dst, image.Point{}, src, image.Rect(x, y, x+side, y+side), xdraw.Src, nil)
	return dst
}

func resizeSquare(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
