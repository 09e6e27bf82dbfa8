package product

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"mylavanya/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if products == nil {
		products = []Product{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": products})
}

type CreateRequest struct {
	ProductName string `json:"productName"`
	ServiceName string `json:"serviceName"`
	SubService  string `json:"subService"`
	Scheme      string `json:"scheme"`
	Price       string `json:"price"`
	NetPayable  string `json:"netPayable"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if strings.TrimSpace(req.ProductName) == "" || strings.TrimSpace(req.ServiceName) == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "productName and serviceName are required")
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "price must be a positive number")
		return
	}

	p := &Product{
		ProductName: strings.TrimSpace(req.ProductName),
		ServiceName: strings.TrimSpace(req.ServiceName),
		SubService:  strings.TrimSpace(req.SubService),
		Scheme:      strings.TrimSpace(req.Scheme),
		Price:       price,
		Active:      true,
	}
	if s := strings.TrimSpace(req.NetPayable); s != "" {
		net, err := decimal.NewFromString(s)
		if err != nil || net.LessThanOrEqual(decimal.Zero) || net.GreaterThan(price) {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "netPayable must be positive and not exceed price")
			return
		}
		p.NetPayable = &net
	}

	created, err := h.Repo.Create(r.Context(), p)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

func (h Handlers) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	if err := h.Repo.SetActive(r.Context(), id, req.Active); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
