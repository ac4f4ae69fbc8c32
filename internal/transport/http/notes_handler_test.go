package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "finboard/internal/errors"
	"finboard/internal/services"
)

type fakeNotesService struct {
	sent []services.Note
	err  error
}

func (f *fakeNotesService) Send(ctx context.Context, note services.Note) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, note)
	return nil
}

func newNotesRouter(svc *fakeNotesService) chi.Router {
	logger := testLogger()
	eh := apierrors.NewErrorHandler(logger, false)
	h := NewNotesHandler(svc, logger, eh)

	r := chi.NewRouter()
	r.Mount("/api/notes", h.Routes())
	return r
}

func TestCreateNote(t *testing.T) {
	svc := &fakeNotesService{}
	router := newNotesRouter(svc)

	body := strings.NewReader(`{"period":"2025-11","author":"Priya","body":"Margins held up."}`)
	r := httptest.NewRequest(http.MethodPost, "/api/notes", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Len(t, svc.sent, 1)
	assert.Equal(t, "2025-11", svc.sent[0].Period)
}

func TestCreateNoteValidation(t *testing.T) {
	router := newNotesRouter(&fakeNotesService{})

	body := strings.NewReader(`{"period":"2025-11"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/notes", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNoteNotifierDown(t *testing.T) {
	router := newNotesRouter(&fakeNotesService{err: services.ErrNotifierUnavailable})

	body := strings.NewReader(`{"period":"2025-11","body":"hello"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/notes", body))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
