package service

import (
	"fmt"
	"io"

	"catalog-inventory/internal/media"
	"catalog-inventory/internal/metrics"
	"catalog-inventory/internal/repository"

	"go.uber.org/zap"
)

// Deps are the collaborators shared by the catalog services
type Deps struct {
	Store   *repository.Store
	Storage media.Storage
	Images  *media.Validator
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Upload is an incoming file; Size is -1 when the client did not declare it
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// storeImage validates an upload and writes it under dir. Nothing is stored
// when validation fails.
func (d Deps) storeImage(kind, dir string, up Upload) (string, error) {
	img, err := d.Images.ValidateImage(up.Filename, up.Size, up.Body)
	if err != nil {
		if media.IsValidationError(err) {
			d.Metrics.RecordImageRejected(kind)
			d.Logger.Debug("Image rejected", zap.String("kind", kind), zap.String("filename", up.Filename), zap.Error(err))
		}
		return "", err
	}

	ref, err := d.Storage.Save(dir, img)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", kind, err)
	}

	d.Metrics.RecordImageStored(kind)
	d.Logger.Info("Image stored", zap.String("kind", kind), zap.String("ref", ref), zap.Int("bytes", len(img.Data)))
	return ref, nil
}

// discardImage removes a stored file, logging rather than failing.
func (d Deps) discardImage(ref string) {
	if err := d.Storage.Delete(ref); err != nil {
		d.Logger.Warn("Failed to remove stored image", zap.String("ref", ref), zap.Error(err))
	}
}

func (d Deps) discardImages(refs []string) {
	for _, ref := range refs {
		d.discardImage(ref)
	}
}
