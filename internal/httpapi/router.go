package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mylavanya/internal/api"
	"mylavanya/internal/artist"
	"mylavanya/internal/auth"
	"mylavanya/internal/booking"
	"mylavanya/internal/cache"
	"mylavanya/internal/catalog"
	"mylavanya/internal/product"
	"mylavanya/internal/status"
	"mylavanya/internal/user"
	"mylavanya/pkg/config"
)

type Dependencies struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *cache.Cache
	OTPSender auth.Sender
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := user.NewRepository(deps.DB)
	artistsRepo := artist.NewRepository(deps.DB)
	productsRepo := product.NewRepository(deps.DB)
	statusesRepo := status.NewRepository(deps.DB)
	bookingsRepo := booking.NewRepository(deps.DB)

	otpSender := deps.OTPSender
	if otpSender == nil {
		otpSender = auth.LogSender{}
	}
	authHandlers := auth.Handlers{
		Cfg:    deps.Cfg,
		Users:  usersRepo,
		Codes:  auth.NewRepository(deps.DB),
		Sender: otpSender,
	}
	userHandlers := user.Handlers{Cfg: deps.Cfg, Repo: usersRepo}
	artistHandlers := artist.Handlers{Repo: artistsRepo}
	productHandlers := product.Handlers{Repo: productsRepo}
	statusHandlers := status.Handlers{Repo: statusesRepo}
	catalogHandlers := catalog.Handlers{Loader: &catalog.Loader{
		Artists:  artistsRepo,
		Products: productsRepo,
		Statuses: statusesRepo,
		Cache:    deps.Cache,
	}}
	bookingHandlers := booking.Handlers{
		DB:       deps.DB,
		Bookings: bookingsRepo,
		Artists:  artistsRepo,
		Products: productsRepo,
		Statuses: statusesRepo,
		Users:    usersRepo,
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAgeSeconds:  600,
		}))

		// Public: auth flow, catalog for booking forms, tracking.
		r.Post("/auth/check", authHandlers.Check)
		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/login", authHandlers.Login)
		r.Post("/auth/otp/request", authHandlers.RequestOTP)
		r.Post("/auth/otp/verify", authHandlers.VerifyOTP)
		r.Post("/auth/password", authHandlers.SetPassword)

		r.Get("/catalog", catalogHandlers.Get)
		r.Get("/track", bookingHandlers.Track)

		// Staff dashboard (admin role).
		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg, usersRepo))
			r.Use(api.RequireRole(api.RoleAdmin))

			r.Get("/bookings", bookingHandlers.List)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Patch("/bookings/{id}", bookingHandlers.Patch)
			r.Post("/bookings/{bookingNumber}/jobs", bookingHandlers.CreateJob)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/artists", artistHandlers.List)
				r.Post("/artists", artistHandlers.Create)
				r.Patch("/artists/{id}/active", artistHandlers.SetActive)

				r.Get("/products", productHandlers.List)
				r.Post("/products", productHandlers.Create)
				r.Patch("/products/{id}/active", productHandlers.SetActive)

				r.Get("/statuses", statusHandlers.List)
				r.Put("/statuses", statusHandlers.Put)

				r.Get("/users", userHandlers.List)
				r.Post("/users", userHandlers.Create)
				r.Patch("/users/{id}/active", userHandlers.SetActive)
			})
		})

		// Member portal.
		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg, usersRepo))
			r.Use(api.RequireRole(api.RoleMember))

			r.Get("/member/bookings", bookingHandlers.MemberList)
			r.Post("/member/bookings", bookingHandlers.CreateBooking)
		})

		// Artist portal.
		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg, usersRepo))
			r.Use(api.RequireRole(api.RoleArtist))

			r.Get("/artist/jobs", bookingHandlers.ArtistJobs)
			r.Patch("/artist/jobs/{id}/status", bookingHandlers.ArtistUpdateStatus)
		})
	})

	return r
}
