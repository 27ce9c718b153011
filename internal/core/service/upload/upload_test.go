package upload_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"triphoto/internal/adapters/repository/memory"
	"triphoto/internal/adapters/storage/local"
	"triphoto/internal/config"
	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"
	"triphoto/internal/core/service/imaging"
	"triphoto/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func defaultUploadCfg() config.UploadConfig {
	return config.UploadConfig{
		MaxFileSize:       10 << 20,
		ScanMaxSize:       50 << 20,
		AllowedExtensions: ".jpg,.jpeg,.png,.gif,.webp,.heic,.heif",
		MaxSessionFiles:   100,
		JPEGQuality:       95,
		ThumbnailQuality:  85,
		ThumbnailMaxDim:   800,
		MaxConcurrent:     4,
	}
}

type testEnv struct {
	svc         port.UploadService
	uow         *memory.UnitOfWork
	storage     port.FileStorage
	storageRoot string
}

func newTestEnv(t *testing.T, cfg config.UploadConfig) *testEnv {
	t.Helper()

	storageRoot := t.TempDir()
	storage, err := local.NewLocalStorage(storageRoot)
	require.NoError(t, err)

	uow := memory.NewUnitOfWork()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	normalizer := imaging.NewNormalizer(nil, cfg, logger)
	svc := upload.NewUploadService(uow, storage, normalizer, nil, cfg, t.TempDir(), logger)

	return &testEnv{svc: svc, uow: uow, storage: storage, storageRoot: storageRoot}
}

func (e *testEnv) seedRoom(t *testing.T) uuid.UUID {
	t.Helper()
	room := domain.Room{
		ID:          uuid.New(),
		Name:        "summer trip",
		CreatorName: "alice",
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	e.uow.AddRoom(room)
	return room.ID
}

// pngBytes encodes a small PNG whose content varies with seed, so distinct
// seeds produce distinct content hashes.
func pngBytes(t *testing.T, seed int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8((x + seed) % 256), G: uint8((y * seed) % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func countStoredFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}
