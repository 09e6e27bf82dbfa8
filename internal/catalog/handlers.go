package catalog

import (
	"net/http"

	"mylavanya/internal/api"
)

type Handlers struct {
	Loader *Loader
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, h.Loader.Load(r.Context()))
}
