package imaging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"triphoto/internal/config"
	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/disintegration/imaging"
)

// CanonicalExtension is the raster format exotic sources are converted to.
const CanonicalExtension = ".jpg"

var exoticExtensions = map[string]struct{}{
	".heic": {},
	".heif": {},
}

var exoticMimeTypes = map[string]struct{}{
	"image/heic": {},
	"image/heif": {},
}

// NormalizedImage describes the outcome of normalizing a staged source file.
type NormalizedImage struct {
	// Path is the normalized file on disk; equals the source path when no
	// conversion happened.
	Path string
	// Extension is the canonical extension for final placement. It diverges
	// from the client's original extension for converted files.
	Extension string
	// MimeType is the effective mime type after conversion, empty when the
	// source passed through unchanged.
	MimeType  string
	Converted bool
}

// Normalizer converts exotic source formats into the canonical raster format
// and produces bounded-size thumbnails.
type Normalizer struct {
	heif         port.HeifDecoder
	logger       *slog.Logger
	quality      int
	thumbQuality int
	thumbMaxDim  int
}

// NewNormalizer creates a new normalizer. heif may be nil, in which case
// exotic sources are rejected with domain.ErrUnsupportedFormat.
func NewNormalizer(heif port.HeifDecoder, cfg config.UploadConfig, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		heif:         heif,
		logger:       logger,
		quality:      cfg.JPEGQuality,
		thumbQuality: cfg.ThumbnailQuality,
		thumbMaxDim:  cfg.ThumbnailMaxDim,
	}
}

// IsExotic reports whether the file requires transcoding before it can be
// treated as a standard raster image. Extension and declared mime type are
// checked independently: browsers report unreliable mime types for HEIC, so
// either signal alone suffices.
func IsExotic(filename, mimeType string) bool {
	if _, ok := exoticExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return true
	}
	_, ok := exoticMimeTypes[strings.ToLower(mimeType)]
	return ok
}

// Normalize converts an exotic staged file into the canonical raster format,
// applying embedded-orientation correction and forcing 3-channel color.
// Non-exotic files pass through unchanged.
func (n *Normalizer) Normalize(srcPath, declaredFilename, declaredMimeType string) (*NormalizedImage, error) {
	if !IsExotic(declaredFilename, declaredMimeType) {
		return &NormalizedImage{
			Path:      srcPath,
			Extension: strings.ToLower(filepath.Ext(declaredFilename)),
		}, nil
	}

	if n.heif == nil {
		return nil, fmt.Errorf("%w: heif codec not available", domain.ErrUnsupportedFormat)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	img, err := n.heif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode heif: %v", domain.ErrUnsupportedFormat, err)
	}

	img = applyOrientation(img, n.exoticOrientation(srcPath))

	dstPath := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + CanonicalExtension
	// JPEG encoding flattens to 3-channel color; HEIC sources may carry alpha.
	if err := imaging.Save(img, dstPath, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, fmt.Errorf("encode normalized image: %w", err)
	}

	return &NormalizedImage{
		Path:      dstPath,
		Extension: CanonicalExtension,
		MimeType:  "image/jpeg",
		Converted: true,
	}, nil
}

// Thumbnail writes a bounded-box resize of srcPath to dstPath, preserving
// aspect ratio and correcting embedded orientation. The destination is always
// JPEG-encoded. Callers treat failure as non-fatal.
func (n *Normalizer) Thumbnail(srcPath, dstPath string) error {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image for thumbnail: %w", err)
	}

	thumb := imaging.Fit(img, n.thumbMaxDim, n.thumbMaxDim, imaging.Lanczos)
	if err := imaging.Save(thumb, dstPath, imaging.JPEGQuality(n.thumbQuality)); err != nil {
		return fmt.Errorf("save thumbnail: %w", err)
	}
	return nil
}

// TakenAt extracts the capture time of the original file. The fallback chain
// is strict: embedded metadata, then filesystem mtime, then the current time —
// each step tried only when the previous one produced nothing.
func (n *Normalizer) TakenAt(srcPath string) time.Time {
	if t, err := n.embeddedTime(srcPath); err == nil {
		return t
	}
	if stat, err := os.Stat(srcPath); err == nil {
		return stat.ModTime()
	}
	return time.Now()
}

func (n *Normalizer) embeddedTime(srcPath string) (time.Time, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	if _, exotic := exoticExtensions[strings.ToLower(filepath.Ext(srcPath))]; exotic {
		if n.heif == nil {
			return time.Time{}, fmt.Errorf("heif codec not available")
		}
		raw, err := n.heif.ExtractExif(f)
		if err != nil {
			return time.Time{}, err
		}
		return exifTime(bytes.NewReader(raw))
	}

	return exifTime(f)
}

// exoticOrientation reads the orientation tag out of an exotic source's EXIF
// block, defaulting to no transform.
func (n *Normalizer) exoticOrientation(srcPath string) int {
	f, err := os.Open(srcPath)
	if err != nil {
		return 1
	}
	defer f.Close()

	raw, err := n.heif.ExtractExif(f)
	if err != nil {
		return 1
	}
	return orientationFromReader(bytes.NewReader(raw))
}
