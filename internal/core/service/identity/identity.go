package identity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"os"
	"triphoto/internal/core/domain"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// hashChunkSize is the buffer used when streaming file bytes into the digest.
const hashChunkSize = 32 * 1024

// Inspect derives the content identity of a stored file: size, mime type,
// pixel dimensions and a streaming MD5 digest used as the dedup key. The hash
// is not a security boundary. When the image decoders cannot introspect the
// file the result degrades to application/octet-stream without dimensions;
// only filesystem errors are fatal.
func Inspect(path string) (domain.ContentIdentity, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return domain.ContentIdentity{}, fmt.Errorf("stat %s: %w", path, err)
	}

	hash, err := hashFile(path)
	if err != nil {
		return domain.ContentIdentity{}, err
	}

	id := domain.ContentIdentity{
		Size:        stat.Size(),
		MimeType:    "application/octet-stream",
		ContentHash: hash,
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.ContentIdentity{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		// Corrupt or unsupported image data; keep the degraded identity.
		return id, nil
	}

	id.MimeType = "image/" + format
	id.Width = &cfg.Width
	id.Height = &cfg.Height
	return id, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
