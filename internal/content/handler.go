package content

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
	"github.com/base64pro/ratil-app/internal/models"
	"github.com/base64pro/ratil-app/internal/transport"
	"github.com/base64pro/ratil-app/internal/validation"
)

// MediaSaver stores an upload and returns its public URL.
type MediaSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

type Handler struct {
	service *Service
	val     *validation.Validator
	uploads MediaSaver
	maxForm int64
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, uploads MediaSaver, maxForm int64, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		uploads: uploads,
		maxForm: maxForm,
		log:     log,
	}
}

func (h *Handler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	category := chi.URLParam(r, "category")
	if !models.IsContentCategory(category) {
		log.Warn("subcategories list: unknown category", slog.String("category", category))
		transport.WriteDetail(w, http.StatusNotFound, "Category not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	subs, err := h.service.ListSubcategories(ctx, category)
	if err != nil {
		log.Error("subcategories list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("subcategories list: ok", slog.String("category", category), slog.Int("count", len(subs)))
	transport.WriteJSON(w, http.StatusOK, subs)
}

func (h *Handler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	category := chi.URLParam(r, "category")
	if !models.IsContentCategory(category) {
		log.Warn("subcategory create: unknown category", slog.String("category", category))
		transport.WriteDetail(w, http.StatusNotFound, "Category not found")
		return
	}

	var req SubcategoryRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("subcategory create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("subcategory create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.service.CreateSubcategory(ctx, category, req)
	if err != nil {
		log.Error("subcategory create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("subcategory create: ok", slog.String("subcategory_id", sub.ID))
	transport.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	category := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	var req SubcategoryRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("subcategory update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("subcategory update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.service.UpdateSubcategory(ctx, category, id, req)
	if err != nil {
		if errors.Is(err, ErrSubcategoryNotFound) {
			log.Warn("subcategory update: not found", slog.String("subcategory_id", id))
			transport.WriteDetail(w, http.StatusNotFound, "Subcategory not found")
			return
		}
		log.Error("subcategory update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("subcategory update: ok", slog.String("subcategory_id", id))
	transport.WriteJSON(w, http.StatusOK, sub)
}

func (h *Handler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	category := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	sub, err := h.service.DeleteSubcategory(ctx, category, id)
	if err != nil {
		if errors.Is(err, ErrSubcategoryNotFound) {
			log.Warn("subcategory delete: not found", slog.String("subcategory_id", id))
			transport.WriteDetail(w, http.StatusNotFound, "Subcategory not found")
			return
		}
		log.Error("subcategory delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("subcategory delete: ok", slog.String("subcategory_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Subcategory '" + sub.Name + "' and all its items deleted successfully",
	})
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	category := chi.URLParam(r, "category")
	if !models.IsContentCategory(category) {
		log.Warn("items list: unknown category", slog.String("category", category))
		transport.WriteDetail(w, http.StatusNotFound, "Category not found")
		return
	}
	subcategoryID := chi.URLParam(r, "subcategoryID")
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListItems(ctx, subcategoryID, query)
	if err != nil {
		log.Error("items list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("items list: ok", slog.String("subcategory_id", subcategoryID), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	subcategoryID := chi.URLParam(r, "subcategoryID")

	req, status, err := h.itemForm(r)
	if err != nil {
		log.Warn("item create: bad form", slog.String("error", err.Error()))
		transport.WriteDetail(w, status, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreateItem(ctx, subcategoryID, req)
	if err != nil {
		if errors.Is(err, ErrSubcategoryNotFound) {
			log.Warn("item create: subcategory not found", slog.String("subcategory_id", subcategoryID))
			transport.WriteDetail(w, http.StatusNotFound, "Subcategory not found")
			return
		}
		log.Error("item create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("item create: ok", slog.String("item_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	itemID := chi.URLParam(r, "id")

	req, status, err := h.itemForm(r)
	if err != nil {
		log.Warn("item update: bad form", slog.String("error", err.Error()))
		transport.WriteDetail(w, status, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdateItem(ctx, itemID, req)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Warn("item update: not found", slog.String("item_id", itemID))
			transport.WriteDetail(w, http.StatusNotFound, "Content item not found")
			return
		}
		log.Error("item update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("item update: ok", slog.String("item_id", itemID))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	itemID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.DeleteItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Warn("item delete: not found", slog.String("item_id", itemID))
			transport.WriteDetail(w, http.StatusNotFound, "Content item not found")
			return
		}
		log.Error("item delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("item delete: ok", slog.String("item_id", itemID))
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Item '" + item.Title + "' deleted successfully",
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 100, 500)
	if err != nil {
		log.Warn("admin content list: invalid pagination")
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	rows, err := h.service.AdminListItems(ctx)
	if err != nil {
		log.Error("admin content list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	total := len(rows)
	if offset > int64(len(rows)) {
		offset = int64(len(rows))
	}
	rows = rows[offset:]
	if limit < int64(len(rows)) {
		rows = rows[:limit]
	}

	log.Info("admin content list: ok", slog.Int("count", len(rows)), slog.Int("total", total))
	transport.WriteJSON(w, http.StatusOK, rows)
}

// itemForm parses the multipart body shared by item create and update:
// title, description, optional file. Returns the status to respond with
// on error.
func (h *Handler) itemForm(r *http.Request) (ItemUpsert, int, error) {
	if err := r.ParseMultipartForm(h.maxForm); err != nil {
		return ItemUpsert{}, http.StatusBadRequest, errors.New("invalid multipart form")
	}

	req := ItemUpsert{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := h.val.Struct(req); err != nil {
		return ItemUpsert{}, http.StatusBadRequest, errors.New("title and description are required")
	}

	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		url, err := h.uploads.Save(files[0])
		if err != nil {
			if errors.Is(err, media.ErrUnsupportedType) {
				return ItemUpsert{}, http.StatusBadRequest, err
			}
			return ItemUpsert{}, http.StatusInternalServerError, errors.New("File upload failed: " + err.Error())
		}
		req.MediaURL = url
	}

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
