package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
	"medstock/m/internal/geo"
	"medstock/m/internal/inventory"
	"medstock/m/internal/metrics"
	"medstock/m/internal/seed"
)

const maxImportBytes = 10 << 20

// Services groups the inventory operations the API exposes.
type Services struct {
	Ledger     *inventory.Ledger
	Aggregator *inventory.Aggregator
	Classifier *inventory.Classifier
	Search     *inventory.Search
	Dashboard  *inventory.Dashboard
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	svc     Services
	metrics *metrics.Collector
	logger  *slog.Logger
	secret  string
}

// New constructs a Handler.
func New(svc Services, secret string, collector *metrics.Collector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, metrics: collector, logger: logger, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	r.Get("/medications/search", h.searchMedications)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listStock)
			r.Post("/", h.addBatch)
			r.Post("/import", h.importBatches)
			r.Get("/batches", h.listBatches)
			r.Get("/expiring", h.expirationReport)
			r.Get("/medications/{id}", h.medicationStock)
			r.Get("/{id}", h.batchStock)
			r.Put("/{id}", h.updateBatch)
			r.Delete("/{id}", h.deleteBatch)
			r.Put("/{id}/increase", h.increaseQuantity)
			r.Put("/{id}/decrease", h.decreaseQuantity)
		})

		pr.Get("/overview/dashboard", h.dashboard)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Search

func (h *Handler) searchMedications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := requesterPoint(q.Get("lat"), q.Get("lon"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	results, err := h.svc.Search.Search(r.Context(), q.Get("query"), from)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// requesterPoint parses the optional requester location. Both coordinates
// must be given together.
func requesterPoint(lat, lon string) (*geo.Point, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, apperr.Validation("location", "lat and lon must be given together")
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, apperr.Validation("lat", "must be a number")
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, apperr.Validation("lon", "must be a number")
	}
	return &geo.Point{Lat: la, Lon: lo}, nil
}

// Stock views

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.StockFilter{Status: domain.StockStatus(q.Get("status"))}
	if v := q.Get("only_available"); v != "" {
		only, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "only_available must be true or false")
			return
		}
		filter.OnlyAvailableBatches = only
	}
	views, err := h.svc.Aggregator.StockByPharmacy(r.Context(), pharmacyID(r), filter)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) medicationStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invalid medication id")
	if !ok {
		return
	}
	view, err := h.svc.Aggregator.StockForMedication(r.Context(), pharmacyID(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) batchStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invalid inventory id")
	if !ok {
		return
	}
	view, err := h.svc.Aggregator.StockForBatch(r.Context(), pharmacyID(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) expirationReport(w http.ResponseWriter, r *http.Request) {
	days, ok := queryDays(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Classifier.Classify(r.Context(), pharmacyID(r), days)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	days, ok := queryDays(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Dashboard.Summary(r.Context(), pharmacyID(r), days)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Batch ledger

func (h *Handler) listBatches(w http.ResponseWriter, r *http.Request) {
	var medicationID *int64
	if v := r.URL.Query().Get("medication_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid medication id")
			return
		}
		medicationID = &id
	}
	batches, err := h.svc.Ledger.ListBatches(r.Context(), pharmacyID(r), medicationID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

func (h *Handler) addBatch(w http.ResponseWriter, r *http.Request) {
	var req domain.NewBatch
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.svc.Ledger.AddBatch(r.Context(), pharmacyID(r), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"status":       "batch added",
		"inventory_id": id,
	})
}

func (h *Handler) importBatches(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := seed.ImportBatches(r.Context(), h.svc.Ledger, pharmacyID(r), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) updateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invalid inventory id")
	if !ok {
		return
	}
	var req domain.BatchUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := h.svc.Ledger.UpdateBatch(r.Context(), pharmacyID(r), id, req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

func (h *Handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invalid inventory id")
	if !ok {
		return
	}
	if err := h.svc.Ledger.DeleteBatch(r.Context(), pharmacyID(r), id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type quantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *Handler) increaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.svc.Ledger.IncreaseQuantity)
}

func (h *Handler) decreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.svc.Ledger.DecreaseQuantity)
}

func (h *Handler) adjustQuantity(w http.ResponseWriter, r *http.Request,
	adjust func(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error)) {
	id, ok := urlID(w, r, "invalid inventory id")
	if !ok {
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := adjust(r.Context(), pharmacyID(r), id, req.Quantity)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

// Helpers

// respondErr maps an apperr kind onto a status code. Storage and unknown
// failures are logged and answered generically.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var short *apperr.InsufficientStockError
	switch {
	case apperr.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &short):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"requested": short.Requested,
			"available": short.Available,
			"shortfall": short.Shortfall(),
		})
	default:
		h.logger.Error("request failed", "request_id", requestID(r), "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func urlID(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

// queryDays reads the optional horizon; absent means the configured default.
func queryDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return 0, true
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		respondError(w, http.StatusBadRequest, "days must be an integer")
		return 0, false
	}
	return days, true
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
