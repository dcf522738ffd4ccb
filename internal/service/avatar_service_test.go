package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"chronicle/internal/config"
	"chronicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func newAvatarService(t *testing.T, repo *profileRepoStub) (*AvatarService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{MediaDir: dir, AvatarMaxUploadMB: 1}
	return NewAvatarService(repo, cfg), dir
}

func TestAvatarService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects Non Image Content", func(t *testing.T) {
		svc, _ := newAvatarService(t, &profileRepoStub{})
		_, err := svc.Upload(ctx, UploadAvatarInput{UserID: 1, Content: []byte("plain text, not an image")})
		assertValidationError(t, err)
	})

	t.Run("Rejects Oversized Upload", func(t *testing.T) {
		svc, _ := newAvatarService(t, &profileRepoStub{})
		_, err := svc.Upload(ctx, UploadAvatarInput{UserID: 1, Content: make([]byte, 2*1024*1024)})
		assertValidationError(t, err)
	})

	t.Run("Normalizes To Square JPEG And Updates Profile", func(t *testing.T) {
		profile := &models.Profile{ID: 1, UserID: 1}
		var saved *models.Profile
		repo := &profileRepoStub{
			getByUserIDFn: func(_ context.Context, _ uint) (*models.Profile, error) { return profile, nil },
			updateFn: func(_ context.Context, p *models.Profile) error {
				saved = p
				return nil
			},
		}
		svc, dir := newAvatarService(t, repo)

		got, err := svc.Upload(ctx, UploadAvatarInput{
			UserID:   1,
			Filename: "me.png",
			Content:  testPNG(t, 640, 480),
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.NotEmpty(t, got.Avatar)

		// Stored file must decode to the fixed square size.
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(got.Avatar)))
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		decoded, format, err := image.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, AvatarSize, decoded.Bounds().Dx())
		assert.Equal(t, AvatarSize, decoded.Bounds().Dy())
	})

	t.Run("Replacing Avatar Removes Old File", func(t *testing.T) {
		profile := &models.Profile{ID: 1, UserID: 1}
		repo := &profileRepoStub{
			getByUserIDFn: func(_ context.Context, _ uint) (*models.Profile, error) { return profile, nil },
			updateFn:      func(_ context.Context, _ *models.Profile) error { return nil },
		}
		svc, dir := newAvatarService(t, repo)

		first, err := svc.Upload(ctx, UploadAvatarInput{UserID: 1, Content: testPNG(t, 100, 100)})
		require.NoError(t, err)
		firstPath := filepath.Join(dir, filepath.FromSlash(first.Avatar))

		_, err = svc.Upload(ctx, UploadAvatarInput{UserID: 1, Content: testPNG(t, 120, 80)})
		require.NoError(t, err)

		_, statErr := os.Stat(firstPath)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestAvatarService_ResolveAvatarPath(t *testing.T) {
	svc, dir := newAvatarService(t, &profileRepoStub{})

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "avatars"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "avatars", "known.jpg"), []byte("x"), 0o600))

	t.Run("Known File Resolves", func(t *testing.T) {
		path, err := svc.ResolveAvatarPath("known.jpg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "avatars", "known.jpg"), path)
	})

	t.Run("Traversal Is Rejected", func(t *testing.T) {
		_, err := svc.ResolveAvatarPath("../secrets.txt")
		assertValidationError(t, err)
	})

	t.Run("Missing File Is Not Found", func(t *testing.T) {
		_, err := svc.ResolveAvatarPath("ghost.jpg")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
