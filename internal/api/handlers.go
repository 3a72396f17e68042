package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/restockd/restockd/internal/extract"
	"github.com/restockd/restockd/internal/models"
	"github.com/restockd/restockd/internal/monitor"
	"github.com/restockd/restockd/internal/store"
)

type Handlers struct {
	monitor *monitor.Monitor
	logger  *slog.Logger
}

func NewHandlers(m *monitor.Monitor, logger *slog.Logger) *Handlers {
	return &Handlers{
		monitor: m,
		logger:  logger.With("component", "api"),
	}
}

// AddProductRequest represents a request to monitor a new URL.
type AddProductRequest struct {
	URL string `json:"url"`
}

// CheckReport is the per-product entry of a batch check response.
type CheckReport struct {
	URL     string              `json:"url"`
	Result  *models.CheckResult `json:"result,omitempty"`
	Outcome string              `json:"outcome,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// AddProduct handles POST /products.
func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	product, err := h.monitor.Add(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			h.respondError(w, http.StatusConflict, "product already monitored")
			return
		}
		var checkErr *extract.CheckError
		if errors.As(err, &checkErr) {
			h.respondError(w, http.StatusBadGateway, "url could not be checked: "+checkErr.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, product)
}

// RemoveProduct handles DELETE /products?url=...
func (h *Handlers) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		h.respondError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	if err := h.monitor.Remove(r.Context(), url); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "product not monitored")
			return
		}
		h.logger.Error("failed to remove product", "url", url, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to remove product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /products.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.monitor.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	if products == nil {
		products = []*models.Product{}
	}
	h.respondJSON(w, http.StatusOK, products)
}

// CheckAll handles POST /check: runs a batch check over all monitored
// products and returns the per-product reports in input order.
func (h *Handlers) CheckAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.monitor.CheckAll(r.Context())
	if err != nil {
		h.logger.Error("batch check failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "batch check failed")
		return
	}

	out := make([]CheckReport, len(reports))
	for i, rep := range reports {
		out[i] = CheckReport{URL: rep.URL}
		if rep.Err != nil {
			out[i].Error = rep.Err.Error()
			continue
		}
		out[i].Result = rep.Result
		out[i].Outcome = rep.Outcome.Kind.String()
	}

	h.respondJSON(w, http.StatusOK, out)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
