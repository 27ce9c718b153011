package imaging_test

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	stdjpeg "image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"triphoto/internal/config"
	"triphoto/internal/core/domain"
	"triphoto/internal/core/service/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		JPEGQuality:      95,
		ThumbnailQuality: 85,
		ThumbnailMaxDim:  800,
	}
}

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, stdjpeg.Encode(f, img, nil))
}

// fakeHeifDecoder stands in for the cgo codec. It ignores the stream contents
// and returns a fixed image.
type fakeHeifDecoder struct {
	img     image.Image
	decErr  error
	exif    []byte
	exifErr error
}

func (f *fakeHeifDecoder) Decode(io.Reader) (image.Image, error) {
	return f.img, f.decErr
}

func (f *fakeHeifDecoder) ExtractExif(io.Reader) ([]byte, error) {
	return f.exif, f.exifErr
}

func TestIsExotic(t *testing.T) {
	assert.True(t, imaging.IsExotic("IMG_0001.HEIC", ""))
	assert.True(t, imaging.IsExotic("photo.heif", "application/octet-stream"))
	assert.True(t, imaging.IsExotic("renamed.jpg", "image/heic"))
	assert.False(t, imaging.IsExotic("photo.jpg", "image/jpeg"))
	assert.False(t, imaging.IsExotic("photo.png", ""))
}

func TestNormalize_PassthroughForStandardFormats(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())
	dir := t.TempDir()
	src := filepath.Join(dir, "staged.bin")
	require.NoError(t, os.WriteFile(src, []byte("raw bytes"), 0o644))

	out, err := n.Normalize(src, "vacation.PNG", "image/png")
	require.NoError(t, err)

	assert.Equal(t, src, out.Path)
	assert.Equal(t, ".png", out.Extension)
	assert.False(t, out.Converted)
	assert.Empty(t, out.MimeType)
}

func TestNormalize_ExoticWithoutCodecIsRejected(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())
	src := filepath.Join(t.TempDir(), "staged.heic")
	require.NoError(t, os.WriteFile(src, []byte("heic bytes"), 0o644))

	_, err := n.Normalize(src, "photo.heic", "image/heic")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNormalize_ExoticDecodeFailureIsRejected(t *testing.T) {
	heif := &fakeHeifDecoder{decErr: errors.New("truncated box")}
	n := imaging.NewNormalizer(heif, testUploadConfig(), discardLogger())
	src := filepath.Join(t.TempDir(), "staged.heic")
	require.NoError(t, os.WriteFile(src, []byte("heic bytes"), 0o644))

	_, err := n.Normalize(src, "photo.heic", "image/heic")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNormalize_ExoticConvertsToJPEG(t *testing.T) {
	heif := &fakeHeifDecoder{
		img:     image.NewRGBA(image.Rect(0, 0, 60, 40)),
		exifErr: errors.New("no exif"),
	}
	n := imaging.NewNormalizer(heif, testUploadConfig(), discardLogger())
	src := filepath.Join(t.TempDir(), "staged.heic")
	require.NoError(t, os.WriteFile(src, []byte("heic bytes"), 0o644))

	out, err := n.Normalize(src, "photo.heic", "image/heic")
	require.NoError(t, err)

	assert.True(t, out.Converted)
	assert.Equal(t, imaging.CanonicalExtension, out.Extension)
	assert.Equal(t, "image/jpeg", out.MimeType)
	assert.Equal(t, ".jpg", filepath.Ext(out.Path))

	f, err := os.Open(out.Path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := stdjpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 60, decoded.Bounds().Dx())
	assert.Equal(t, 40, decoded.Bounds().Dy())
}

func TestThumbnail_BoundsLargeImages(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())
	dir := t.TempDir()
	src := filepath.Join(dir, "big.jpg")
	dst := filepath.Join(dir, "thumb_big.jpg")
	writeJPEG(t, src, 1600, 800)

	require.NoError(t, n.Thumbnail(src, dst))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	thumb, err := stdjpeg.Decode(f)
	require.NoError(t, err)

	// Aspect ratio preserved, longest side bounded to the configured max.
	assert.Equal(t, 800, thumb.Bounds().Dx())
	assert.Equal(t, 400, thumb.Bounds().Dy())
}

func TestThumbnail_SmallImagesAreNotUpscaled(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())
	dir := t.TempDir()
	src := filepath.Join(dir, "small.jpg")
	dst := filepath.Join(dir, "thumb_small.jpg")
	writeJPEG(t, src, 120, 90)

	require.NoError(t, n.Thumbnail(src, dst))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	thumb, err := stdjpeg.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 120, thumb.Bounds().Dx())
	assert.Equal(t, 90, thumb.Bounds().Dy())
}

func TestThumbnail_UnreadableSourceFails(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not a jpeg"), 0o644))

	err := n.Thumbnail(src, filepath.Join(dir, "thumb.jpg"))
	assert.Error(t, err)
}

func TestTakenAt_FallsBackToModTime(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())
	src := filepath.Join(t.TempDir(), "plain.jpg")
	writeJPEG(t, src, 8, 8)

	mtime := time.Date(2023, 6, 14, 10, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	assert.True(t, n.TakenAt(src).Equal(mtime))
}

func TestTakenAt_MissingFileFallsBackToNow(t *testing.T) {
	n := imaging.NewNormalizer(nil, testUploadConfig(), discardLogger())

	before := time.Now()
	got := n.TakenAt(filepath.Join(t.TempDir(), "gone.jpg"))
	after := time.Now()

	assert.False(t, got.Before(before), fmt.Sprintf("got %v before %v", got, before))
	assert.False(t, got.After(after))
}
