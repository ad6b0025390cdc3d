package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/base64pro/ratil-app/internal/auth"
	"github.com/base64pro/ratil-app/internal/httpx"
	"github.com/base64pro/ratil-app/internal/middleware"
	"github.com/base64pro/ratil-app/internal/models"
	"github.com/base64pro/ratil-app/internal/transport"
	"github.com/base64pro/ratil-app/internal/validation"
)

const (
	AccessCookie  = "ratil_access"
	RefreshCookie = "ratil_refresh"
)

type Handler struct {
	service      *Service
	tokens       *auth.Manager
	val          *validation.Validator
	cookieSecure bool
	log          *slog.Logger
}

func NewHandler(service *Service, tokens *auth.Manager, val *validation.Validator, cookieSecure bool, log *slog.Logger) *Handler {
	return &Handler{
		service:      service,
		tokens:       tokens,
		val:          val,
		cookieSecure: cookieSecure,
		log:          log,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("login: invalid json")
		transport.WriteDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("login: validation error")
		transport.WriteDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("login: invalid credentials", slog.String("username", req.Username))
			transport.WriteDetail(w, http.StatusUnauthorized, "اسم المستخدم أو كلمة المرور غير صحيحة")
			return
		}
		log.Error("login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	access, err := h.tokens.NewAccessToken(user.Username, user.Role, user.CanAccessPortfolio)
	if err != nil {
		log.Error("login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refresh, err := h.tokens.NewRefreshToken(user.Username, user.Role, user.CanAccessPortfolio)
	if err != nil {
		log.Error("login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	h.setCookie(w, AccessCookie, access, h.tokens.AccessTTL)
	h.setCookie(w, RefreshCookie, refresh, h.tokens.RefreshTTL)

	log.Info("login: ok", slog.String("username", user.Username), slog.String("role", user.Role))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"user":   user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, AccessCookie)
	h.clearCookie(w, RefreshCookie)

	h.logWithRequest(r).Info("logout: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.service.List(ctx)
	if err != nil {
		log.Error("users list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("users list: ok", slog.Int("count", len(list)))
	transport.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("user create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("user create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			log.Warn("user create: username taken", slog.String("username", req.Username))
			transport.WriteDetail(w, http.StatusConflict, "Username already exists")
			return
		}
		log.Error("user create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("user create: ok", slog.String("username", user.Username))
	transport.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	username := strings.TrimSpace(chi.URLParam(r, "username"))

	var req ChangePasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("change password: invalid json")
		transport.WriteDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("change password: validation error")
		transport.WriteDetail(w, http.StatusBadRequest, "current and new passwords are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.ChangePassword(ctx, username, req); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("change password: user not found", slog.String("username", username))
			transport.WriteDetail(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrWrongPassword):
			log.Warn("change password: wrong current password", slog.String("username", username))
			transport.WriteDetail(w, http.StatusBadRequest, "كلمة المرور الحالية غير صحيحة")
		default:
			log.Error("change password: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("change password: ok", slog.String("username", username))
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "تم تغيير كلمة المرور بنجاح",
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	username := strings.TrimSpace(chi.URLParam(r, "username"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, username); err != nil {
		switch {
		case errors.Is(err, ErrAdminProtected):
			log.Warn("user delete: admin protected")
			transport.WriteDetail(w, http.StatusBadRequest, "Cannot delete the admin user")
		case errors.Is(err, ErrNotFound):
			log.Warn("user delete: not found", slog.String("username", username))
			transport.WriteDetail(w, http.StatusNotFound, "User not found")
		default:
			log.Error("user delete: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("user delete: ok", slog.String("username", username))
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "User '" + username + "' deleted successfully",
	})
}

// CurrentUser returns the actor behind the access cookie so the client
// can restore its session after a reload.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	cookie, err := r.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		transport.WriteDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	claims, err := h.tokens.Parse(cookie.Value)
	if err != nil {
		transport.WriteDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	log.Info("current user: ok", slog.String("username", claims.Username))
	transport.WriteJSON(w, http.StatusOK, models.User{
		Username:           claims.Username,
		Role:               claims.Role,
		CanAccessPortfolio: claims.CanAccessPortfolio,
	})
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
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
