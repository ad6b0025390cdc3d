package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/base64pro/ratil-app/internal/httpx"
	"github.com/base64pro/ratil-app/internal/media"
	"github.com/base64pro/ratil-app/internal/middleware"
	"github.com/base64pro/ratil-app/internal/transport"
	"github.com/base64pro/ratil-app/internal/validation"
)

type MediaSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

type Handler struct {
	service  *Service
	val      *validation.Validator
	uploads  MediaSaver
	maxForm  int64
	location *time.Location
	log      *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, uploads MediaSaver, maxForm int64, location *time.Location, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		uploads:  uploads,
		maxForm:  maxForm,
		location: location,
		log:      log,
	}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cats, err := h.service.ListCategories(ctx)
	if err != nil {
		log.Error("portfolio categories list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio categories list: ok", slog.Int("count", len(cats)))
	transport.WriteJSON(w, http.StatusOK, cats)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CategoryRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("portfolio category create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("portfolio category create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cat, err := h.service.CreateCategory(ctx, req)
	if err != nil {
		log.Error("portfolio category create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio category create: ok", slog.String("category_id", cat.ID))
	transport.WriteJSON(w, http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req CategoryRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("portfolio category update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("portfolio category update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cat, err := h.service.UpdateCategory(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			log.Warn("portfolio category update: not found", slog.String("category_id", id))
			transport.WriteError(w, http.StatusNotFound, "portfolio category not found", nil)
			return
		}
		log.Error("portfolio category update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio category update: ok", slog.String("category_id", id))
	transport.WriteJSON(w, http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			log.Warn("portfolio category delete: not found", slog.String("category_id", id))
			transport.WriteError(w, http.StatusNotFound, "portfolio category not found", nil)
			return
		}
		log.Error("portfolio category delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio category delete: ok", slog.String("category_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	filter, err := h.itemFilter(r)
	if err != nil {
		log.Warn("portfolio items list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	views, err := h.service.ListItems(ctx, filter)
	if err != nil {
		log.Error("portfolio items list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio items list: ok", slog.Int("count", len(views)))
	transport.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	req, status, err := h.itemForm(r, true)
	if err != nil {
		log.Warn("portfolio item create: bad form", slog.String("error", err.Error()))
		transport.WriteDetail(w, status, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	view, err := h.service.CreateItem(ctx, req)
	if err != nil {
		log.Error("portfolio item create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio item create: ok", slog.String("item_id", view.ID))
	transport.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	req, status, err := h.itemForm(r, false)
	if err != nil {
		log.Warn("portfolio item update: bad form", slog.String("error", err.Error()))
		transport.WriteDetail(w, status, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	view, err := h.service.UpdateItem(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Warn("portfolio item update: not found", slog.String("item_id", id))
			transport.WriteError(w, http.StatusNotFound, "portfolio item not found", nil)
			return
		}
		log.Error("portfolio item update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio item update: ok", slog.String("item_id", id))
	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Warn("portfolio item delete: not found", slog.String("item_id", id))
			transport.WriteError(w, http.StatusNotFound, "portfolio item not found", nil)
			return
		}
		log.Error("portfolio item delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("portfolio item delete: ok", slog.String("item_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// itemFilter reads the browsing constraints off the query string.
// Dates are plain calendar days interpreted in the site timezone.
func (h *Handler) itemFilter(r *http.Request) (ItemFilter, error) {
	values := r.URL.Query()
	filter := ItemFilter{
		Query:      strings.TrimSpace(values.Get("q")),
		ClientID:   strings.TrimSpace(values.Get("client_id")),
		CategoryID: strings.TrimSpace(values.Get("category_id")),
	}

	if raw := strings.TrimSpace(values.Get("start_date")); raw != "" {
		start, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			return ItemFilter{}, errors.New("invalid start_date")
		}
		filter.Start = &start
	}
	if raw := strings.TrimSpace(values.Get("end_date")); raw != "" {
		end, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			return ItemFilter{}, errors.New("invalid end_date")
		}
		filter.End = &end
	}

	return filter, nil
}

func (h *Handler) itemForm(r *http.Request, fileRequired bool) (ItemUpsert, int, error) {
	if err := r.ParseMultipartForm(h.maxForm); err != nil {
		return ItemUpsert{}, http.StatusBadRequest, errors.New("invalid multipart form")
	}

	req := ItemUpsert{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		ClientID:    strings.TrimSpace(r.FormValue("client_id")),
		CategoryID:  strings.TrimSpace(r.FormValue("category_id")),
	}
	if err := h.val.Struct(req); err != nil {
		return ItemUpsert{}, http.StatusBadRequest, errors.New("title, client_id and category_id are required")
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		if fileRequired {
			return ItemUpsert{}, http.StatusBadRequest, errors.New("file is required")
		}
		return req, 0, nil
	}

	url, err := h.uploads.Save(files[0])
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			return ItemUpsert{}, http.StatusBadRequest, err
		}
		return ItemUpsert{}, http.StatusInternalServerError, errors.New("File upload failed: " + err.Error())
	}
	req.FileURL = url

	return req, 0, nil
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
