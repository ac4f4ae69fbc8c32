package http

import (
	"context"

	"finboard/internal/analytics"
	"finboard/internal/services"
	"finboard/pkg/contracts/domain"
)

// WorkbookServiceInterface is the workbook service surface the handlers use.
type WorkbookServiceInterface interface {
	Upload(ctx context.Context, monthKey string, data []byte) (domain.MonthInfo, error)
	GetMonth(ctx context.Context, monthKey string) (domain.SheetData, error)
	ListMonths(ctx context.Context) ([]domain.MonthInfo, error)
	Snapshot(ctx context.Context, monthKey string) (analytics.Snapshot, error)
	Compare(ctx context.Context, periods []string) (analytics.Comparison, error)
	InvalidateAll()
}

// AuthServiceInterface is the auth service surface the handlers use.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (string, error)
	Validate(token string) error
	Logout(ctx context.Context, token string)
}

// NotesServiceInterface is the notes service surface the handlers use.
type NotesServiceInterface interface {
	Send(ctx context.Context, note services.Note) error
}
