package user

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"mylavanya/internal/api"
	"mylavanya/pkg/config"
)

// Handlers covers admin-side user management. Self-service signup and
// password flows live in internal/auth.
type Handlers struct {
	Cfg  config.Config
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if users == nil {
		users = []User{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": users})
}

type CreateRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" || req.FirstName == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "phone and firstName are required")
		return
	}
	switch req.Role {
	case api.RoleMember, api.RoleAdmin, api.RoleArtist:
	default:
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid role")
		return
	}

	u := &User{
		Phone:     req.Phone,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  strings.TrimSpace(req.Username),
		Role:      req.Role,
		Active:    true,
	}
	if e := strings.TrimSpace(req.Email); e != "" {
		u.Email = &e
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.Cfg.Auth.BcryptCost)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		u.PasswordHash = string(hash)
	}

	created, err := h.Repo.Create(r.Context(), u)
	if err != nil {
		api.WriteError(w, http.StatusConflict, "USER_EXISTS", "a user with this phone or email already exists")
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
