package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/engine"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/export"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

const maxRequestBytes = 16 << 20 // generous for large accounts

// AnalysisService exposes the waste-detection engine over HTTP. Each request
// carries its own invoice batch; the service keeps no state between calls.
type AnalysisService struct {
	defaults engine.Config
	exporter *export.Service
	logger   *zap.Logger
}

func NewAnalysisService(defaults engine.Config, exporter *export.Service, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{defaults: defaults, exporter: exporter, logger: logger}
}

type analyzeOptions struct {
	ProbableDuplicateWindowDays *int               `json:"probable_duplicate_window_days,omitempty"`
	PriceIncreaseThreshold      *decimal.Decimal   `json:"price_increase_threshold,omitempty"`
	SubscriptionTolerances      *engine.Tolerances `json:"subscription_tolerances,omitempty"`
}

type analyzeRequest struct {
	Invoices []invoice.Invoice `json:"invoices"`
	Window   *engine.Window    `json:"window,omitempty"`
	Options  *analyzeOptions   `json:"options,omitempty"`
}

func (s *AnalysisService) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *AnalysisService) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runAnalysis(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *AnalysisService) handleAnalyzeExport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runAnalysis(w, r)
	if !ok {
		return
	}
	data, err := s.exporter.WriteReportXLSX(report)
	if err != nil {
		s.logger.Warn("report export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "EXPORT_FAILED", "report export failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="waste-report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// runAnalysis decodes, validates and executes one analysis request. On error
// it writes the HTTP response itself and returns ok=false.
func (s *AnalysisService) runAnalysis(w http.ResponseWriter, r *http.Request) (*engine.Report, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read request body", nil)
		return nil, false
	}

	if err := invoice.ValidateJSONAgainstSchema(buildAnalyzeRequestSchema(), body); err != nil {
		writeError(w, http.StatusBadRequest, "SCHEMA_VALIDATION", err.Error(), nil)
		return nil, false
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("decode request: %v", err), nil)
		return nil, false
	}

	cfg := s.defaults
	if opts := req.Options; opts != nil {
		if opts.ProbableDuplicateWindowDays != nil {
			cfg.ProbableDuplicateWindowDays = *opts.ProbableDuplicateWindowDays
		}
		if opts.PriceIncreaseThreshold != nil {
			cfg.PriceIncreaseThreshold = *opts.PriceIncreaseThreshold
		}
		if opts.SubscriptionTolerances != nil {
			cfg.SubscriptionTolerances = *opts.SubscriptionTolerances
		}
	}

	eng, err := engine.New(cfg, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, "CONFIG_ERROR", err.Error(), nil)
		return nil, false
	}

	report, err := eng.Analyze(r.Context(), engine.Request{Invoices: req.Invoices, Window: req.Window})
	if err != nil {
		var invErr *invoice.InvalidInvoiceDataError
		switch {
		case errors.As(err, &invErr):
			writeError(w, http.StatusBadRequest, "INVALID_INVOICE_DATA", invErr.Reason, invErr)
		case errors.Is(err, r.Context().Err()) && r.Context().Err() != nil:
			// Client went away; partial results are discarded by design.
			s.logger.Info("analysis cancelled", zap.Error(err))
		default:
			s.logger.Warn("analysis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "analysis failed", nil)
		}
		return nil, false
	}
	return report, true
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Field     string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string, invErr *invoice.InvalidInvoiceDataError) {
	body := errorBody{Code: code, Message: message}
	if invErr != nil {
		body.InvoiceID = invErr.InvoiceID
		body.Field = invErr.Field
	}
	writeJSON(w, status, errorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
