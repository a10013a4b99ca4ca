package server

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires the analysis service routes with logging and panic recovery.
func NewRouter(svc *AnalysisService, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := mux.NewRouter()

	r.HandleFunc("/health", svc.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/analyze", svc.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/v1/analyze/export", svc.handleAnalyzeExport).Methods(http.MethodPost)

	r.Use(Logger(log))

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(r)
}
