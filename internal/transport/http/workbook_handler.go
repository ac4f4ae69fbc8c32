package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"finboard/internal/dataprocessing"
	apierrors "finboard/internal/errors"
	"finboard/internal/exporter"
	"finboard/internal/services"
	"finboard/pkg/contracts/domain"
)

// WorkbookHandler handles workbook upload, retrieval, listing, KPI and
// comparison requests with RFC 7807 compliance.
type WorkbookHandler struct {
	service      WorkbookServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	maxUpload    int64
}

// NewWorkbookHandler creates a new workbook handler.
func NewWorkbookHandler(service WorkbookServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUpload int64) *WorkbookHandler {
	return &WorkbookHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "workbook_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
		maxUpload:    maxUpload,
	}
}

// Routes returns the workbook routes.
func (h *WorkbookHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListMonths)
	r.Post("/", h.Upload)

	r.Route("/{month}", func(r chi.Router) {
		r.Use(h.MonthCtx)
		r.Get("/", h.GetMonth)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/export", h.ExportCSV)
	})

	return r
}

// MonthCtx validates the month URL parameter. The reserved key "latest"
// resolves to the legacy workbook.
func (h *WorkbookHandler) MonthCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		month := chi.URLParam(r, "month")
		if month != "latest" && !services.ValidMonthKey(month) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("month", "month must be YYYY-MM or \"latest\""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type monthListResponse struct {
	Success bool        `json:"success"`
	Months  interface{} `json:"months"`
}

// ListMonths handles GET /api/workbooks
func (h *WorkbookHandler) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.service.ListMonths(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "months listed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("count", len(months)),
	)

	render.JSON(w, r, monthListResponse{Success: true, Months: months})
}

type uploadResponse struct {
	Success bool        `json:"success"`
	Month   interface{} `json:"month"`
}

// Upload handles POST /api/workbooks. The workbook arrives either as the
// "file" field of a multipart form with a "month" field, or as the raw
// request body with a month query parameter.
func (h *WorkbookHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	month, data, err := h.readUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info, err := h.service.Upload(r.Context(), month, data)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, uploadResponse{Success: true, Month: info})
}

func (h *WorkbookHandler) readUpload(r *http.Request) (string, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return "", nil, apierrors.ErrPayloadTooLarge
		}
		month := r.FormValue("month")
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", nil, apierrors.ErrValidation("file", "multipart field \"file\" is required")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, apierrors.InvalidRequestWithError(err)
		}
		return month, data, nil
	}

	month := r.URL.Query().Get("month")
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, apierrors.ErrPayloadTooLarge
		}
		return "", nil, apierrors.InvalidRequestWithError(err)
	}
	return month, data, nil
}

type sheetMeta struct {
	Name       string            `json:"name"`
	Short      string            `json:"short"`
	RowClasses []domain.RowClass `json:"rowClasses"`
}

type workbookResponse struct {
	Success bool        `json:"success"`
	Month   string      `json:"month"`
	Sheets  interface{} `json:"sheets"`
	Meta    []sheetMeta `json:"meta"`
}

// GetMonth handles GET /api/workbooks/{month}
func (h *WorkbookHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	sd, err := h.service.GetMonth(r.Context(), month)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, workbookResponse{Success: true, Month: month, Sheets: sd, Meta: describeSheets(sd)})
}

// describeSheets derives per-sheet display metadata for clients: the short
// tab label and the recomputed row classes.
func describeSheets(sd domain.SheetData) []sheetMeta {
	registry := dataprocessing.DefaultRegistry()
	classifier := dataprocessing.NewClassifier()

	meta := make([]sheetMeta, 0, len(sd))
	for _, sheet := range sd {
		layout := registry.Lookup(sheet.Name)
		meta = append(meta, sheetMeta{
			Name:       sheet.Name,
			Short:      layout.Short,
			RowClasses: classifier.ClassifySheet(sheet, layout),
		})
	}
	return meta
}

type kpiResponse struct {
	Success bool        `json:"success"`
	Month   string      `json:"month"`
	Data    interface{} `json:"data"`
}

// GetKPIs handles GET /api/workbooks/{month}/kpis
func (h *WorkbookHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	snap, err := h.service.Snapshot(r.Context(), month)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, kpiResponse{Success: true, Month: month, Data: snap})
}

// ExportCSV handles GET /api/workbooks/{month}/export?sheet=NAME[&raw=1]
func (h *WorkbookHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	sheetName := r.URL.Query().Get("sheet")
	if sheetName == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sheet", "sheet query parameter is required"))
		return
	}

	sd, err := h.service.GetMonth(r.Context(), month)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	sheet, ok := sd.Sheet(sheetName)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("sheet"))
		return
	}

	raw, _ := strconv.ParseBool(r.URL.Query().Get("raw"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+month+".csv\"")
	if err := exporter.WriteSheetCSV(w, sheet, exporter.CSVOptions{BOMPrefix: true, Raw: raw}); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("month", month),
			slog.String("sheet", sheetName),
			slog.String("error", err.Error()),
		)
	}
}

type compareRequest struct {
	Periods []string `json:"periods" validate:"required,min=2,dive,required"`
}

type compareResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// Compare handles POST /api/compare
func (h *WorkbookHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("periods", "at least two period keys are required"))
		return
	}

	cmp, err := h.service.Compare(r.Context(), req.Periods)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, compareResponse{Success: true, Data: cmp})
}

func (h *WorkbookHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "workbook request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)

	switch {
	case errors.Is(err, services.ErrInvalidPeriodKey):
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidPeriod)
	case errors.Is(err, services.ErrWorkbookNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrWorkbookNotFound)
	case errors.Is(err, services.ErrWorkbookUnreadable):
		h.errorHandler.HandleError(w, r, apierrors.ErrWorkbookUnreadable)
	case errors.Is(err, services.ErrInsufficientPeriods):
		h.errorHandler.HandleError(w, r, apierrors.ErrInsufficientPeriods)
	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
