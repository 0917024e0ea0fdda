package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/charts"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

const (
	defaultBaseCurrency = "bitstamp"
	categoryParam       = "category"
	blockDateQuery      = "blockDate"
	upperBoundQuery     = "startTimestamp"
)

// HTTPHandler serves the chart and currency REST endpoints.
type HTTPHandler struct {
	charts       ChartService
	rates        RateReader
	health       HealthChecker
	baseCurrency string
	logger       *zap.Logger
}

// NewHTTPHandler wires an HTTPHandler. baseCurrency names the key of the rate in currency responses.
func NewHTTPHandler(
	chartService ChartService,
	rates RateReader,
	health HealthChecker,
	baseCurrency string,
	logger *zap.Logger,
) (*HTTPHandler, error) {
	if chartService == nil {
		return nil, errors.New("chart service is required")
	}
	if rates == nil {
		return nil, errors.New("rate reader is required")
	}
	if health == nil {
		return nil, errors.New("health checker is required")
	}
	if baseCurrency == "" {
		baseCurrency = defaultBaseCurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		charts:       chartService,
		rates:        rates,
		health:       health,
		baseCurrency: baseCurrency,
		logger:       logger.Named("http"),
	}, nil
}

type chartInfo struct {
	Name string `json:"name"`
}

type chartListResponse struct {
	Charts map[model.Category]chartInfo `json:"charts"`
}

type currencyResponse struct {
	Status int                `json:"status"`
	Data   map[string]float64 `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) listCharts(w http.ResponseWriter, _ *http.Request) {
	categories := h.charts.Categories()
	out := chartListResponse{Charts: make(map[model.Category]chartInfo, len(categories))}
	for c, name := range categories {
		out.Charts[c] = chartInfo{Name: name}
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) chart(w http.ResponseWriter, r *http.Request) {
	req := charts.Request{
		Category:  chi.URLParam(r, categoryParam),
		BlockDate: r.URL.Query().Get(blockDateQuery),
	}
	if raw := r.URL.Query().Get(upperBoundQuery); raw != "" {
		upper, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "startTimestamp must be a unix timestamp"})
			return
		}
		req.UpperBound = upper
	}

	payload, err := h.charts.Chart(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			h.logger.Debug("client gone before chart was ready", zap.String("category", req.Category), zap.Error(err))
			return
		}
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			h.logger.Error("build chart", zap.String("category", req.Category), zap.Error(err))
		}
		h.writeJSON(w, code, errorResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *HTTPHandler) currency(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, currencyResponse{
		Status: http.StatusOK,
		Data:   map[string]float64{h.baseCurrency: h.rates.Read(r.Context())},
	})
}

func (h *HTTPHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	var validation *charts.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, charts.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response", zap.Error(err))
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}
