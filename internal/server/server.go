package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"free-rent/internal/auth"
	"free-rent/internal/httpx"
	"free-rent/internal/middleware"
	"free-rent/internal/models"
	"free-rent/internal/validate"
)

// Version is reported by GET /version.
var Version = "0.1.0"

type Options struct {
	HandleCORS bool
	Validator  *validate.Validator
}

type Server struct {
	Router    *chi.Mux
	db        *gorm.DB
	auth      *auth.Authenticator
	validator *validate.Validator
	opts      Options
}

func New(db *gorm.DB, a *auth.Authenticator, opts Options) (*Server, error) {
	s := &Server{
		Router:    chi.NewRouter(),
		db:        db,
		auth:      a,
		validator: opts.Validator,
		opts:      opts,
	}
	if s.validator == nil {
		s.validator = validate.New()
	}
	if err := s.MountHandlers(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) MountHandlers() error {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if s.opts.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Get("/version", s.getVersion)
	s.Router.Get("/healthz", s.getHealth)

	var mountErr error
	s.Router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireOperator(s.auth))
		r.Get("/schema/{kind}", httpx.WrapHttpRsp(s.getSchema))
		mountErr = errors.Join(
			mountEntity[*models.Tenant](s, r, ownedBy[*models.Pet]("pets"), ownedBy[*models.Vehicle]("vehicles")),
			mountEntity[*models.Pet](s, r),
			mountEntity[*models.Vehicle](s, r),
			mountEntity[*models.Property](s, r),
			mountEntity[*models.UnitType](s, r),
			mountEntity[*models.Unit](s, r),
		)
	})
	return mountErr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	httpx.SendJsonRsp(w, http.StatusOK, &GetVersionRsp{
		ServerVersion: "free-rent: " + Version,
		ApiVersion:    "v1",
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("database ping failed")
		httpx.ErrApplicationError("database unavailable").Send(w)
		return
	}
	httpx.SendJsonRsp(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getSchema(r *http.Request) (*httpx.Response, error) {
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, httpx.ErrNotFound(err.Error())
	}
	table, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: table.Specs()}, nil
}

func (s *Server) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Location", middleware.RequestIdHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
