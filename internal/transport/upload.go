package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-inventory/internal/media"
	"catalog-inventory/internal/middleware"
	"catalog-inventory/internal/service"

	"github.com/google/uuid"
)

// ImageField is the multipart field carrying an uploaded image
const ImageField = "image"

const (
	maxUploadRequestBytes = 32 << 20
	multipartMemory       = 8 << 20
)

// readUpload parses a multipart request and returns its image part. The
// returned cleanup closes the part and removes spooled temp files.
func readUpload(w http.ResponseWriter, r *http.Request) (service.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Upload{}, nil, media.ErrImageTooLarge
		}
		return service.Upload{}, nil, &middleware.ValidationError{Field: "body", Message: "Expected a multipart form"}
	}

	file, header, err := r.FormFile(ImageField)
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		if errors.Is(err, http.ErrMissingFile) {
			return service.Upload{}, nil, &middleware.ValidationError{Field: ImageField, Message: "This field is required"}
		}
		return service.Upload{}, nil, &middleware.ValidationError{Field: ImageField, Message: "Invalid file"}
	}

	cleanup := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}
	return service.Upload{Filename: header.Filename, Size: header.Size, Body: file}, cleanup, nil
}

func formUUID(r *http.Request, field string) (uuid.UUID, error) {
	value := r.FormValue(field)
	if value == "" {
		return uuid.Nil, &middleware.ValidationError{Field: field, Message: "This field is required"}
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &middleware.ValidationError{Field: field, Message: "Invalid identifier"}
	}
	return id, nil
}

func formBool(r *http.Request, field string) (bool, error) {
	value := r.FormValue(field)
	if value == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, &middleware.ValidationError{Field: field, Message: "Invalid boolean"}
	}
	return v, nil
}
