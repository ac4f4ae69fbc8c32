package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"finboard/internal/config"
)

// NotesService delivers analyst notes to the configured recipients through
// the Resend email API.
type NotesService struct {
	cfg    config.NotifyConfig
	client *http.Client
	logger *slog.Logger
}

// NewNotesService creates a notes service.
func NewNotesService(cfg config.NotifyConfig, logger *slog.Logger) *NotesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotesService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("component", "notes_service")),
	}
}

// Note is an analyst note attached to a reporting period.
type Note struct {
	Period string `json:"period" validate:"required"`
	Author string `json:"author"`
	Body   string `json:"body" validate:"required"`
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send emails the note to the configured recipients.
func (s *NotesService) Send(ctx context.Context, note Note) error {
	if strings.TrimSpace(note.Body) == "" {
		return ErrNoteEmpty
	}
	if s.cfg.APIKey == "" || len(s.cfg.Recipients) == 0 {
		return ErrNotifierUnavailable
	}

	subject := fmt.Sprintf("Financial note for %s", note.Period)
	text := note.Body
	if note.Author != "" {
		text = fmt.Sprintf("%s\n\n- %s", note.Body, note.Author)
	}

	payload, err := json.Marshal(resendRequest{
		From:    s.cfg.From,
		To:      s.cfg.Recipients,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build note request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.ErrorContext(ctx, "note delivery rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("period", note.Period),
		)
		return fmt.Errorf("%w: upstream returned %d", ErrNotifierUnavailable, resp.StatusCode)
	}

	s.logger.InfoContext(ctx, "note delivered",
		slog.String("period", note.Period),
		slog.Int("recipients", len(s.cfg.Recipients)),
	)
	return nil
}
