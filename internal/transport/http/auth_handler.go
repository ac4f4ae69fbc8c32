package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "finboard/internal/errors"
	"finboard/internal/services"
)

// AuthHandler handles login, logout and the bearer-token gate in front of
// mutating endpoints.
type AuthHandler struct {
	service      AuthServiceInterface
	workbooks    WorkbookServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service AuthServiceInterface, workbooks WorkbookServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AuthHandler {
	return &AuthHandler{
		service:      service,
		workbooks:    workbooks,
		logger:       logger.With(slog.String("component", "auth_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the auth routes.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	return r
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("credentials", "username and password are required"))
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, loginResponse{Success: true, Token: token})
}

// Logout handles POST /api/auth/logout. The workbook cache is dropped with
// the session so a fresh login re-reads from storage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
		return
	}

	h.service.Logout(r.Context(), token)
	h.workbooks.InvalidateAll()

	render.JSON(w, r, map[string]bool{"success": true})
}

// RequireAuth gates a route group behind a valid bearer token.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if err := h.service.Validate(token); err != nil {
			h.logger.WarnContext(r.Context(), "request rejected",
				slog.String("path", r.URL.Path),
				slog.String("reason", err.Error()),
			)
			h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
