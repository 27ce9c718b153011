package port

import (
	"image"
	"io"
)

// HeifDecoder is an interface to decode HEIC/HEIF sources. A nil decoder means
// the codec path is unavailable and exotic uploads must be rejected.
type HeifDecoder interface {
	Decode(r io.Reader) (image.Image, error)
	ExtractExif(r io.Reader) ([]byte, error)
}
