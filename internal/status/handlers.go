package status

import (
	"encoding/json"
	"net/http"
	"strings"

	"mylavanya/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	options, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if options == nil {
		options = []Option{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": options})
}

func (h Handlers) Put(w http.ResponseWriter, r *http.Request) {
	var req Option
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Code = strings.TrimSpace(strings.ToLower(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "code and name are required")
		return
	}

	saved, err := h.Repo.Upsert(r.Context(), &req)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, saved)
}
