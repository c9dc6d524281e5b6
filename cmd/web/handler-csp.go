package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/myrjola/liftcalc/internal/errors"
)

// maxCSPReportBytes bounds the body read from a violation report.
const maxCSPReportBytes = 64 * 1024

// cspViolationReport is the body browsers post to the report-uri of the Content-Security-Policy.
type cspViolationReport struct {
	CSPReport struct {
		DocumentURI        string `json:"document-uri"`
		Referrer           string `json:"referrer"`
		ViolatedDirective  string `json:"violated-directive"`
		EffectiveDirective string `json:"effective-directive"`
		BlockedURI         string `json:"blocked-uri"`
		LineNumber         int    `json:"line-number"`
		SourceFile         string `json:"source-file"`
		Disposition        string `json:"disposition"`
	} `json:"csp-report"`
}

// cspViolation logs violation reports so that a too strict policy shows up in the logs.
func (app *application) cspViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCSPReportBytes))
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "read CSP violation report", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var report cspViolationReport
	if err = json.Unmarshal(body, &report); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "parse CSP violation report",
			errors.SlogError(err), slog.String("content_type", r.Header.Get("Content-Type")))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	app.logger.LogAttrs(ctx, slog.LevelWarn, "CSP violation detected",
		slog.String("document_uri", report.CSPReport.DocumentURI),
		slog.String("violated_directive", report.CSPReport.ViolatedDirective),
		slog.String("effective_directive", report.CSPReport.EffectiveDirective),
		slog.String("blocked_uri", report.CSPReport.BlockedURI),
		slog.String("source_file", report.CSPReport.SourceFile),
		slog.Int("line_number", report.CSPReport.LineNumber),
		slog.String("disposition", report.CSPReport.Disposition),
		slog.String("referrer", report.CSPReport.Referrer))

	w.WriteHeader(http.StatusNoContent)
}
