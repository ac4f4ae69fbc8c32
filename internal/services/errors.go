package services

import "errors"

// Workbook service errors
var (
	// Workbook errors
	ErrWorkbookNotFound   = errors.New("workbook not found")
	ErrWorkbookUnreadable = errors.New("workbook unreadable")
	ErrNoMonthsFound      = errors.New("no months found")
	ErrInvalidPeriodKey   = errors.New("invalid period key")

	// Comparison errors
	ErrInsufficientPeriods = errors.New("insufficient periods")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthorized       = errors.New("unauthorized")

	// Notes errors
	ErrNoteEmpty          = errors.New("note body is empty")
	ErrNotifierUnavailable = errors.New("notifier unavailable")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
