// Package heif wraps the goheif decoder behind the codec port.
package heif

import (
	"bytes"
	"image"
	"io"

	"triphoto/internal/core/port"

	"github.com/jdeng/goheif"
)

type decoder struct{}

// NewDecoder returns the HEIC/HEIF decoder.
func NewDecoder() port.HeifDecoder {
	return decoder{}
}

func (decoder) Decode(r io.Reader) (image.Image, error) {
	return goheif.Decode(r)
}

func (decoder) ExtractExif(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return goheif.ExtractExif(bytes.NewReader(data))
}
