package transport

import (
	"net/http"
	"path"
	"strings"

	"catalog-inventory/internal/media"
	"catalog-inventory/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MediaHandler serves stored images by reference. It expects to be mounted
// on a wildcard route.
func MediaHandler(storage media.Storage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := path.Clean("/" + chi.URLParam(r, "*"))
		ref = strings.TrimPrefix(ref, "/")
		if ref == "" || ref == "." {
			middleware.RespondWithError(w, http.StatusNotFound, "file not found")
			return
		}

		file, err := storage.Open(ref)
		if err != nil {
			logger.Debug("Media file not found", zap.String("ref", ref), zap.Error(err))
			middleware.RespondWithError(w, http.StatusNotFound, "file not found")
			return
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil || info.IsDir() {
			middleware.RespondWithError(w, http.StatusNotFound, "file not found")
			return
		}

		http.ServeContent(w, r, info.Name(), info.ModTime(), file)
	}
}
