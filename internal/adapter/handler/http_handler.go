package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rl1809/car-rental/internal/core/domain"
	"github.com/rl1809/car-rental/internal/core/service"
)

const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	rentalService *service.RentalService
	validate      *validator.Validate
	log           *slog.Logger
}

type AvailableCarHTTPRequest struct {
	CarCategory domain.CarCategory `json:"carCategory"`
}

type ResultHTTPResponse struct {
	Result any `json:"result"`
}

type ErrorHTTPResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(rentalService *service.RentalService, log *slog.Logger) *HTTPHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPHandler{
		rentalService: rentalService,
		validate:      validator.New(),
		log:           log,
	}
}

// Routes registers every endpoint. Unmatched requests fall through to the
// greeting, which doubles as a liveness probe.
func (h *HTTPHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /availableCar", h.AvailableCar)
	mux.HandleFunc("POST /avaiableCar", h.AvailableCar)
	mux.HandleFunc("POST /finalPrice", h.FinalPrice)
	mux.HandleFunc("POST /rent", h.Rent)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("/", h.Default)
	return mux
}

func (h *HTTPHandler) AvailableCar(w http.ResponseWriter, r *http.Request) {
	var req AvailableCarHTTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	car, err := h.rentalService.GetAvailableCar(r.Context(), req.CarCategory)
	if err != nil {
		h.writeError(w, r, "available car", err)
		return
	}

	writeJSON(w, http.StatusOK, ResultHTTPResponse{Result: car})
}

func (h *HTTPHandler) FinalPrice(w http.ResponseWriter, r *http.Request) {
	var req domain.RentalRequest
	if !h.decode(w, r, &req) {
		return
	}

	price, err := h.rentalService.CalculateFinalPrice(req)
	if err != nil {
		h.writeError(w, r, "final price", err)
		return
	}

	writeJSON(w, http.StatusOK, ResultHTTPResponse{Result: price})
}

func (h *HTTPHandler) Rent(w http.ResponseWriter, r *http.Request) {
	var req domain.RentalRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.rentalService.Rent(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "rent", err)
		return
	}

	writeJSON(w, http.StatusOK, ResultHTTPResponse{Result: tx})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) Default(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "Hello world")
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "validation error: " + err.Error()})
		return false
	}
	return true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	if errors.Is(err, domain.ErrInvalidInput) {
		status = http.StatusBadRequest
		message = err.Error()
	} else if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
		message = "car not found"
	}

	h.log.Error(op, "err", err, "status", status, "req_id", RequestIDFrom(r.Context()))
	writeJSON(w, status, ErrorHTTPResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
