package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"triphoto/internal/core/domain"
)

// scanHeaderSize is how many leading bytes are checked for hostile signatures.
const scanHeaderSize = 1024

// executableMagic are magic numbers of executable formats. A real photo never
// starts with one of these.
var executableMagic = [][]byte{
	[]byte("MZ"),             // Windows PE
	[]byte("\x7fELF"),        // ELF
	{0xca, 0xfe, 0xba, 0xbe}, // Mach-O fat / Java class
}

// scriptSignatures are matched case-insensitively anywhere in the header,
// catching scripts disguised behind an image extension.
var scriptSignatures = [][]byte{
	[]byte("<?php"),
	[]byte("<script"),
}

// scanStagedFile rejects staged files that exceed the hard size ceiling or
// carry an executable or script signature. The ceiling is checked against
// actual bytes on disk, independent of what the client declared.
func (s *uploadService) scanStagedFile(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat staged file: %w", err)
	}
	if stat.Size() > s.cfg.ScanMaxSize {
		return fmt.Errorf("%w: staged file is %d bytes, limit is %d", domain.ErrSecurityRejected, stat.Size(), s.cfg.ScanMaxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	header := make([]byte, scanHeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("read staged file header: %w", err)
	}
	header = header[:n]

	for _, magic := range executableMagic {
		if bytes.HasPrefix(header, magic) {
			return fmt.Errorf("%w: executable signature in file header", domain.ErrSecurityRejected)
		}
	}

	lowered := bytes.ToLower(header)
	for _, sig := range scriptSignatures {
		if bytes.Contains(lowered, sig) {
			return fmt.Errorf("%w: script signature in file header", domain.ErrSecurityRejected)
		}
	}

	return nil
}
