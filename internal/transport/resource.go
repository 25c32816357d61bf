package transport

import (
	"context"
	"net/http"

	"catalog-inventory/internal/middleware"
	"catalog-inventory/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// modelRequest is a request body that builds the model it describes
type modelRequest[T any] interface {
	model(id uuid.UUID) *T
}

// resource serves list, create, get, update and delete of one admin entity
// from the functions of its service. A nil create leaves POST to a custom
// handler registered through extra.
type resource[T any, Req modelRequest[T]] struct {
	entity string
	list   func(context.Context, repository.ListParams) ([]T, int, error)
	get    func(context.Context, uuid.UUID) (*T, error)
	create func(context.Context, *T) error
	update func(context.Context, *T) error
	remove func(context.Context, uuid.UUID) error
	extra  func(chi.Router)
	logger *zap.Logger
}

func (res *resource[T, Req]) mount(r chi.Router) {
	r.Route("/"+res.entity, func(r chi.Router) {
		r.Get("/", res.handleList)
		if res.create != nil {
			r.Post("/", res.handleCreate)
		}
		r.Get("/{id}", res.handleGet)
		r.Put("/{id}", res.handleUpdate)
		r.Delete("/{id}", res.handleDelete)
		if res.extra != nil {
			res.extra(r)
		}
	})
}

func (res *resource[T, Req]) handleList(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	items, total, err := res.list(r.Context(), params)
	if err != nil {
		respondError(w, res.logger, err)
		return
	}
	respondList(w, params, items, total)
}

func (res *resource[T, Req]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, res.logger, err)
		return
	}

	item, err := res.get(r.Context(), id)
	if err != nil {
		respondError(w, res.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (res *resource[T, Req]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, res.logger, err)
		return
	}

	item := req.model(uuid.Nil)
	if err := res.create(r.Context(), item); err != nil {
		respondError(w, res.logger, err)
		return
	}

	res.logger.Info("Admin record created", zap.String("entity", res.entity))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

func (res *resource[T, Req]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, res.logger, err)
		return
	}

	var req Req
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, res.logger, err)
		return
	}

	item := req.model(id)
	if err := res.update(r.Context(), item); err != nil {
		respondError(w, res.logger, err)
		return
	}

	res.logger.Info("Admin record updated", zap.String("entity", res.entity), zap.String("id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (res *resource[T, Req]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, res.logger, err)
		return
	}

	if err := res.remove(r.Context(), id); err != nil {
		respondError(w, res.logger, err)
		return
	}

	res.logger.Info("Admin record deleted", zap.String("entity", res.entity), zap.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
