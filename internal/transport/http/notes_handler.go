package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "finboard/internal/errors"
	"finboard/internal/services"
)

// NotesHandler handles analyst note submissions.
type NotesHandler struct {
	service      NotesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(service NotesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *NotesHandler {
	return &NotesHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "notes_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the notes routes.
func (h *NotesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Create)

	return r
}

// Create handles POST /api/notes
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var note services.Note
	if err := render.DecodeJSON(r.Body, &note); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(note); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("note", "period and body are required"))
		return
	}

	if err := h.service.Send(r.Context(), note); err != nil {
		switch {
		case errors.Is(err, services.ErrNoteEmpty):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "note body is empty"))
		case errors.Is(err, services.ErrNotifierUnavailable):
			h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable)
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]bool{"success": true})
}
