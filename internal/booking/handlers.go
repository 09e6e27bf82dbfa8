package booking

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mylavanya/internal/api"
	"mylavanya/internal/artist"
	"mylavanya/internal/audit"
	"mylavanya/internal/product"
	"mylavanya/internal/status"
	"mylavanya/internal/user"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Bookings *Repository
	Artists  *artist.Repository
	Products *product.Repository
	Statuses *status.Repository
	Users    *user.Repository
}

// statusOptions loads the active status list for resolution and the
// assignment gate. A load failure here fails the write path: the gate
// cannot run without its configuration.
func (h Handlers) statusOptions(r *http.Request) ([]status.Option, error) {
	return h.Statuses.ListActive(r.Context())
}

func decorate(items []Booking, options []status.Option) []Booking {
	for i := range items {
		items[i].StatusName = ResolveStatusName(items[i].StatusCode, options)
	}
	return items
}

func writeValidationError(w http.ResponseWriter, err error) bool {
	var verr ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	code := http.StatusBadRequest
	if verr.Code == ErrArtistRequired.Code {
		code = http.StatusConflict
	}
	api.WriteError(w, code, verr.Code, verr.Message)
	return true
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	options, err := h.statusOptions(r)
	if err != nil {
		// Degrade: codes without display names, not a failed request.
		log.Printf("[booking] status options load failed: %v", err)
		options = nil
	}
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": decorate(items, options)})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}
	options, _ := h.statusOptions(r)
	b.StatusName = ResolveStatusName(b.StatusCode, options)
	api.WriteJSON(w, http.StatusOK, b)
}

// Patch applies a diff-and-patch edit to one booking. Only changed
// fields reach the UPDATE; the artist-required gate runs before any
// write and on failure the stored record is untouched.
func (h Handlers) Patch(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var in EditInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	cur, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}

	options, err := h.statusOptions(r)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not load status options")
		return
	}
	if in.Status != nil && *in.Status != "" && ResolveStatusName(*in.Status, options) == "Pending" && *in.Status != status.CodePending {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown status")
		return
	}

	var art *artist.Artist
	if in.ArtistID != nil && (cur.ArtistID == nil || *cur.ArtistID != *in.ArtistID) {
		art, err = h.Artists.GetByID(r.Context(), *in.ArtistID)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "ARTIST_NOT_FOUND", "selected artist does not exist")
			return
		}
	}

	patch, err := BuildPatch(cur, in, art, actor, options, time.Now())
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	merged, err := h.Bookings.ApplyPatch(r.Context(), id, patch)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "SAVE_FAILED", "could not save booking")
		return
	}

	_ = audit.Insert(r.Context(), h.DB, &merged.ID, audit.ActionBookingUpdated, actor.DisplayName(), nil)
	if patch.Status != nil {
		_ = audit.Insert(r.Context(), h.DB, &merged.ID, audit.ActionStatusChanged, actor.DisplayName(),
			map[string]any{"from": cur.StatusCode, "to": *patch.Status})
	}
	if patch.ArtistID != nil {
		_ = audit.Insert(r.Context(), h.DB, &merged.ID, audit.ActionArtistAssigned, actor.DisplayName(),
			map[string]any{"artistId": *patch.ArtistID, "assignedTo": patch.Stamp.AssignedTo})
	}

	merged.StatusName = ResolveStatusName(merged.StatusCode, options)
	api.WriteJSON(w, http.StatusOK, merged)
}

type NewJobRequest struct {
	ProductID int64   `json:"productId"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Quantity  int     `json:"quantity"`
	Status    string  `json:"status"`
	ArtistID  *int64  `json:"artistId,omitempty"`
	Address   *string `json:"address,omitempty"`
	Pincode   *string `json:"pincode,omitempty"`
}

// CreateJob adds another job under an existing booking number,
// inheriting the customer context from its latest job.
func (h Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	// Booking numbers arrive as strings from the client and live as
	// numbers in the store; a non-numeric value is a validation error.
	bookingNumber, err := strconv.ParseInt(chi.URLParam(r, "bookingNumber"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "bookingNumber must be numeric")
		return
	}

	var req NewJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	parent, err := h.Bookings.LatestJob(r.Context(), bookingNumber)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}

	options, err := h.statusOptions(r)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not load status options")
		return
	}

	in, ok := h.resolveJobInput(w, r, req, options)
	if !ok {
		return
	}

	created, err := h.Bookings.CreateJob(r.Context(), bookingNumber, func(jobNumber int) (*Booking, error) {
		return BuildJob(parent, in, jobNumber, actor, options, time.Now())
	})
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "SAVE_FAILED", "could not create job")
		return
	}

	_ = audit.Insert(r.Context(), h.DB, &created.ID, audit.ActionJobCreated, actor.DisplayName(),
		map[string]any{"bookingNumber": created.BookingNumber, "jobNumber": created.JobNumber})

	created.StatusName = ResolveStatusName(created.StatusCode, options)
	api.WriteJSON(w, http.StatusCreated, created)
}

// resolveJobInput loads the product and the optional artist for a
// new-job request, writing the error response itself on failure.
func (h Handlers) resolveJobInput(w http.ResponseWriter, r *http.Request, req NewJobRequest, options []status.Option) (NewJobInput, bool) {
	in := NewJobInput{
		Date:       req.Date,
		Time:       req.Time,
		Quantity:   req.Quantity,
		StatusCode: req.Status,
		Address:    req.Address,
		Pincode:    req.Pincode,
	}

	if req.ProductID == 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "productId is required")
		return in, false
	}
	p, err := h.Products.GetByID(r.Context(), req.ProductID)
	if err != nil || !p.Active {
		api.WriteError(w, http.StatusBadRequest, "PRODUCT_NOT_FOUND", "selected product is not available")
		return in, false
	}
	in.Product = p

	if req.ArtistID != nil {
		a, err := h.Artists.GetByID(r.Context(), *req.ArtistID)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "ARTIST_NOT_FOUND", "selected artist does not exist")
			return in, false
		}
		in.Artist = a
	} else if RequiresArtist(valueOr(req.Status, status.CodePending), options) {
		api.WriteError(w, http.StatusConflict, ErrArtistRequired.Code, ErrArtistRequired.Message)
		return in, false
	}

	return in, true
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

type MemberBookingRequest struct {
	ProductID int64  `json:"productId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Quantity  int    `json:"quantity"`
	Address   string `json:"address"`
	Pincode   string `json:"pincode"`
}

// CreateBooking opens a fresh booking number with its first job for the
// calling member. Status always starts at pending; assignment is staff
// work.
func (h Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	var req MemberBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	member, err := h.Users.FindByID(r.Context(), actor.ID)
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
		return
	}

	options, err := h.statusOptions(r)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not load status options")
		return
	}

	if req.ProductID == 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "productId is required")
		return
	}
	p, err := h.Products.GetByID(r.Context(), req.ProductID)
	if err != nil || !p.Active {
		api.WriteError(w, http.StatusBadRequest, "PRODUCT_NOT_FOUND", "selected product is not available")
		return
	}

	bookingNumber, err := h.Bookings.NewBookingNumber(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "SAVE_FAILED", "could not allocate booking number")
		return
	}

	parent := &Booking{
		BookingNumber: bookingNumber,
		Name:          member.DisplayName(),
		Phone:         member.Phone,
		Email:         member.Email,
		Address:       strings.TrimSpace(req.Address),
	}
	in := NewJobInput{
		Product:    p,
		Date:       req.Date,
		Time:       req.Time,
		Quantity:   req.Quantity,
		StatusCode: status.CodePending,
	}
	if s := strings.TrimSpace(req.Pincode); s != "" {
		in.Pincode = &s
	}

	created, err := h.Bookings.CreateJob(r.Context(), bookingNumber, func(jobNumber int) (*Booking, error) {
		return BuildJob(parent, in, jobNumber, actor, options, time.Now())
	})
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "SAVE_FAILED", "could not create booking")
		return
	}

	_ = audit.Insert(r.Context(), h.DB, &created.ID, audit.ActionJobCreated, actor.DisplayName(),
		map[string]any{"bookingNumber": created.BookingNumber, "jobNumber": created.JobNumber})

	created.StatusName = ResolveStatusName(created.StatusCode, options)
	api.WriteJSON(w, http.StatusCreated, created)
}

// MemberList returns the calling member's own bookings.
func (h Handlers) MemberList(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	member, err := h.Users.FindByID(r.Context(), actor.ID)
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
		return
	}

	items, err := h.Bookings.ListByPhone(r.Context(), member.Phone)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	options, _ := h.statusOptions(r)
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": decorate(items, options)})
}

// Track is the public lookup: booking number plus the phone it was
// placed under.
func (h Handlers) Track(w http.ResponseWriter, r *http.Request) {
	bookingNumber, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("bookingNumber")), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "bookingNumber must be numeric")
		return
	}
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "phone is required")
		return
	}

	items, err := h.Bookings.ListByBookingNumber(r.Context(), bookingNumber)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	matched := make([]Booking, 0, len(items))
	for _, b := range items {
		if b.Phone == phone {
			matched = append(matched, b)
		}
	}
	if len(matched) == 0 {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no booking found for this number and phone")
		return
	}
	options, _ := h.statusOptions(r)
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": decorate(matched, options)})
}

// ArtistJobs lists the jobs assigned to the calling artist.
func (h Handlers) ArtistJobs(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	profile, err := h.Artists.FindByUserID(r.Context(), actor.ID)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no artist profile for this account")
		return
	}

	items, err := h.Bookings.ListByArtist(r.Context(), profile.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	options, _ := h.statusOptions(r)
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": decorate(items, options)})
}

type ArtistStatusRequest struct {
	Status string `json:"status"`
}

// artistUpdatable is the slice of the lifecycle an artist may advance
// through from the field.
var artistUpdatable = map[string]bool{
	status.CodeOnTheWay:       true,
	status.CodeServiceStarted: true,
	status.CodeDone:           true,
}

// ArtistUpdateStatus lets an artist advance one of their own jobs.
func (h Handlers) ArtistUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req ArtistStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if !artistUpdatable[req.Status] {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "artists cannot set this status")
		return
	}

	profile, err := h.Artists.FindByUserID(r.Context(), actor.ID)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no artist profile for this account")
		return
	}
	cur, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}
	if cur.ArtistID == nil || *cur.ArtistID != profile.ID {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "job is not assigned to you")
		return
	}

	options, err := h.statusOptions(r)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not load status options")
		return
	}

	patch, err := BuildPatch(cur, EditInput{Status: &req.Status}, nil, actor, options, time.Now())
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	merged, err := h.Bookings.ApplyPatch(r.Context(), id, patch)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "SAVE_FAILED", "could not save booking")
		return
	}
	if patch.Status != nil {
		_ = audit.Insert(r.Context(), h.DB, &merged.ID, audit.ActionStatusChanged, actor.DisplayName(),
			map[string]any{"from": cur.StatusCode, "to": *patch.Status})
	}

	merged.StatusName = ResolveStatusName(merged.StatusCode, options)
	api.WriteJSON(w, http.StatusOK, merged)
}
