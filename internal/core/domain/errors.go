package domain

import "errors"

// ErrRoomNotFound is an error thrown when room is not found
var ErrRoomNotFound = errors.New("room not found")

// ErrSessionNotFound is an error thrown when upload session is not found
var ErrSessionNotFound = errors.New("upload session not found")

// ErrLogNotFound is an error thrown when upload log is not found
var ErrLogNotFound = errors.New("upload log not found")

// ErrPhotoNotFound is an error thrown when photo is not found
var ErrPhotoNotFound = errors.New("photo not found")

// ErrInvalidFileType is an error thrown when file extension is not allowed
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when declared file size exceeds the cap
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrInvalidBatchSize is an error thrown when a session declares an out-of-range file count
var ErrInvalidBatchSize = errors.New("invalid batch size")

// ErrUnsupportedFormat is an error thrown when an exotic format has no codec available
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrDuplicateUpload is an error thrown when the same uploader submits the same
// content to the same room twice
var ErrDuplicateUpload = errors.New("duplicate upload")

// ErrSecurityRejected is an error thrown when a staged file fails the content scan
var ErrSecurityRejected = errors.New("file rejected by security scan")

// ErrStorageFailure is an error thrown on storage I/O failure
var ErrStorageFailure = errors.New("storage failure")

// ErrInvalidTransition is an error thrown on an illegal upload log status transition
var ErrInvalidTransition = errors.New("invalid upload log transition")
