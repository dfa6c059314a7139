package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/campus-collector/internal/analyzer"
	"github.com/templui/campus-collector/internal/ctxkeys"
	"github.com/templui/campus-collector/internal/httpjson"
	"github.com/templui/campus-collector/internal/i18n"
	"github.com/templui/campus-collector/internal/model"
)

// Base64 of a 10MB photo plus JSON overhead.
const maxAnalyzeBody = 16 << 20

type AnalyzeHandler struct {
	analyzer *analyzer.Analyzer
	timeout  time.Duration
}

func NewAnalyzeHandler(analyzer *analyzer.Analyzer, timeout time.Duration) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		timeout:  timeout,
	}
}

type analyzeRequest struct {
	ImageBase64 string `json:"imageBase64"`
	Language    string `json:"language"`
}

func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	lang := ctxkeys.Language(r.Context())

	var req analyzeRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgInvalidBody))
		return
	}
	if req.Language != "" {
		lang = i18n.Match(req.Language)
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	analysis, err := h.analyzer.Analyze(ctx, req.ImageBase64, lang)
	if err != nil {
		status, message := analyzeError(lang, err)
		if status >= http.StatusInternalServerError {
			slog.Error("photo analysis failed", "error", err, "status", status, "request_id", ctxkeys.RequestID(r.Context()))
		}
		httpjson.Error(w, status, message)
		return
	}

	httpjson.Write(w, http.StatusOK, analysis)
}

func analyzeError(lang model.Language, err error) (int, string) {
	var e *analyzer.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgServerError)
	}

	switch e.Kind {
	case analyzer.KindInvalidInput:
		return http.StatusBadRequest, i18n.Sprintf(lang, i18n.MsgNoImage)
	case analyzer.KindConfig:
		if errors.Is(err, analyzer.ErrMissingAPIKey) {
			return http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgAPIKeyMissing)
		}
		return http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgServerError)
	case analyzer.KindUpstream:
		if e.StatusCode != 0 {
			return e.StatusCode, i18n.Sprintf(lang, i18n.MsgUpstreamFailed, e.StatusCode, e.Message)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, i18n.Sprintf(lang, i18n.MsgAnalyzeTimeout)
		}
		return http.StatusBadGateway, i18n.Sprintf(lang, i18n.MsgUpstreamFailed, http.StatusBadGateway, http.StatusText(http.StatusBadGateway))
	case analyzer.KindMalformed:
		return http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgMalformedReply)
	}
	return http.StatusInternalServerError, i18n.Sprintf(lang, i18n.MsgServerError)
}
