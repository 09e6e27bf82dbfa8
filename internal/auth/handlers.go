package auth

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mylavanya/internal/api"
	"mylavanya/internal/user"
	"mylavanya/pkg/config"
	"mylavanya/pkg/token"
)

// Handlers implements the multi-step sign-in flow: existence check,
// OTP issue/verify, password set, then password login with role-scoped
// tokens for client-side dispatch.
type Handlers struct {
	Cfg    config.Config
	Users  *user.Repository
	Codes  *Repository
	Sender Sender
}

func (h Handlers) findByIdentifier(r *http.Request, identifier string) (*user.User, error) {
	if strings.Contains(identifier, "@") {
		return h.Users.FindByEmail(r.Context(), identifier)
	}
	return h.Users.FindByPhone(r.Context(), identifier)
}

type CheckRequest struct {
	Identifier string `json:"identifier"`
}

// Check reports whether an account exists for a phone or email. The
// client uses it to branch between the login and signup steps.
func (h Handlers) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "identifier is required")
		return
	}

	u, err := h.findByIdentifier(r, identifier)
	if err != nil {
		api.WriteJSON(w, http.StatusOK, map[string]any{"exists": false})
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"exists":      true,
		"role":        u.Role,
		"hasPassword": u.PasswordHash != "",
	})
}

type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

func (h Handlers) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if !isNumeric(phone) || len(phone) != 10 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "phone must be 10 digits")
		return
	}

	if _, err := h.Users.FindByPhone(r.Context(), phone); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no account for this phone")
		return
	}

	code, err := GenerateCode(otpLength)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), h.Cfg.Auth.BcryptCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	// Older codes stop working the moment a new one is issued.
	if err := h.Codes.InvalidateCodes(r.Context(), phone); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	expiresAt := time.Now().Add(time.Duration(h.Cfg.Auth.OTPTTLMin) * time.Minute)
	if err := h.Codes.InsertCode(r.Context(), phone, string(hash), expiresAt); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	if err := h.Sender.SendOTP(r.Context(), phone, code); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "OTP_DELIVERY_FAILED", "could not deliver code")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOTP checks a code and, on success, returns a short-lived reset
// token the client exchanges at /auth/password.
func (h Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || strings.TrimSpace(req.Code) == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "phone and code are required")
		return
	}

	u, err := h.Users.FindByPhone(r.Context(), phone)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no account for this phone")
		return
	}

	rec, err := h.Codes.LatestCode(r.Context(), phone)
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "OTP_INVALID", "no active code")
		return
	}
	if err := CheckUsable(*rec, time.Now(), h.Cfg.Auth.OTPMaxAttempts); err != nil {
		api.WriteError(w, http.StatusUnauthorized, "OTP_INVALID", err.Error())
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(strings.TrimSpace(req.Code))) != nil {
		_ = h.Codes.BumpAttempts(r.Context(), rec.ID)
		api.WriteError(w, http.StatusUnauthorized, "OTP_INVALID", "wrong code")
		return
	}
	if err := h.Codes.MarkUsed(r.Context(), rec.ID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	resetToken, err := token.Sign(h.Cfg.Auth.JWTSecret, token.Identity{
		UserID:  strconv.FormatInt(u.ID, 10),
		Role:    u.Role,
		Purpose: token.PurposePasswordReset,
	}, 10*time.Minute, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"resetToken": resetToken})
}

type SetPasswordRequest struct {
	ResetToken string `json:"resetToken"`
	Password   string `json:"password"`
}

func (h Handlers) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if len(req.Password) < 8 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "password must be at least 8 characters")
		return
	}

	id, err := token.Verify(req.ResetToken, h.Cfg.Auth.JWTSecret, time.Now())
	if err != nil || id.Purpose != token.PurposePasswordReset {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid reset token")
		return
	}
	userID, err := strconv.ParseInt(id.UserID, 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.Cfg.Auth.BcryptCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), userID, string(hash)); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "identifier and password are required")
		return
	}

	u, err := h.findByIdentifier(r, identifier)
	if err != nil || !u.Active || u.PasswordHash == "" {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	signed, err := token.Sign(h.Cfg.Auth.JWTSecret, token.Identity{
		UserID:    strconv.FormatInt(u.ID, 10),
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Purpose:   token.PurposeAccess,
	}, time.Duration(h.Cfg.Auth.AccessTTLMin)*time.Minute, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"token": signed,
		"user": map[string]any{
			"id":        u.ID,
			"role":      u.Role,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
		},
	})
}

type RegisterRequest struct {
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// Register creates a member account. Staff and artist accounts are
// provisioned by admins through /admin/users.
func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if !isNumeric(phone) || len(phone) != 10 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "phone must be 10 digits")
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || len(req.Password) < 8 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "firstName and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.Cfg.Auth.BcryptCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	u := &user.User{
		Phone:        phone,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         api.RoleMember,
		Active:       true,
		PasswordHash: string(hash),
	}
	if e := strings.TrimSpace(req.Email); e != "" {
		u.Email = &e
	}

	created, err := h.Users.Create(r.Context(), u)
	if err != nil {
		api.WriteError(w, http.StatusConflict, "USER_EXISTS", "an account with this phone or email already exists")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
