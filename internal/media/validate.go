package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageTooLarge = errors.New("the maximum file size allowed is 2 MB")
	ErrNotAnImage    = errors.New("upload a valid image")
	ErrEmptyUpload   = errors.New("the submitted file is empty")
)

// Image is an uploaded image that passed validation and is ready to store
type Image struct {
	Filename    string
	ContentType string
	Extension   string
	Data        []byte
}

// Validator checks uploads before anything is written
type Validator struct {
	maxBytes int64
}

// NewValidator creates a validator rejecting images above maxBytes.
func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// MaxBytes returns the configured size ceiling.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateImage reads at most one byte past the size ceiling from r, rejects
// oversized or non-image content and returns the buffered image. The declared
// size is checked first so an oversized upload is rejected without reading it.
func (v *Validator) ValidateImage(filename string, declaredSize int64, r io.Reader) (*Image, error) {
	if declaredSize > v.maxBytes {
		return nil, ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, v.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > v.maxBytes {
		return nil, ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	mtype, err := mimetype.DetectReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotAnImage
	}

	return &Image{
		Filename:    filename,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
		Data:        data,
	}, nil
}

// IsValidationError reports whether err is a user-facing upload rejection.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrNotAnImage) || errors.Is(err, ErrEmptyUpload)
}
