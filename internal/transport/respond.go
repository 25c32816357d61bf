package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-inventory/internal/media"
	"catalog-inventory/internal/middleware"
	"catalog-inventory/internal/repository"
	"catalog-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TotalCountHeader carries the unpaged row count of a list response
const TotalCountHeader = "X-Total-Count"

// ListResponse is one page of a list endpoint
type ListResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Query parameters consumed by paging, sorting and search; every other
// parameter is passed through as a list filter.
var listControlParams = map[string]bool{
	"q":         true,
	"sort":      true,
	"order":     true,
	"page":      true,
	"page_size": true,
}

// StatusFor maps service and repository errors onto HTTP status codes.
func StatusFor(err error) int {
	var inputErr *service.InputError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict), errors.Is(err, service.ErrImmutable):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrInvalidValue),
		errors.Is(err, repository.ErrInvalidFilter),
		media.IsValidationError(err),
		errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the error envelope. Server faults are logged
// and their message withheld from the client.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		logger.Debug("Request validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		logger.Debug("Request rejected", zap.Error(err))
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: inputErr.Field, Message: inputErr.Message},
		})
		return
	}

	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, status, "internal server error")
		return
	}

	logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	middleware.RespondWithError(w, status, err.Error())
}

// parseListParams reads search, sort, paging and filters from the query string.
func parseListParams(r *http.Request) repository.ListParams {
	query := r.URL.Query()

	params := repository.ListParams{
		Search:    query.Get("q"),
		SortBy:    query.Get("sort"),
		SortOrder: repository.SortOrder(query.Get("order")),
		Filters:   make(map[string]string),
	}
	params.Page, _ = strconv.Atoi(query.Get("page"))
	params.PageSize, _ = strconv.Atoi(query.Get("page_size"))

	for key, values := range query {
		if listControlParams[key] || len(values) == 0 || values[0] == "" {
			continue
		}
		params.Filters[key] = values[0]
	}

	return params.Normalize()
}

func respondList[T any](w http.ResponseWriter, params repository.ListParams, items []T, total int) {
	if items == nil {
		items = []T{}
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	middleware.RespondWithJSON(w, http.StatusOK, ListResponse[T]{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &middleware.ValidationError{Field: "id", Message: "Invalid identifier"}
	}
	return id, nil
}
