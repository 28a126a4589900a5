package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geohome/geohome/internal/cep"
	"github.com/geohome/geohome/internal/service"
)

// Services is everything the HTTP layer delegates to.
type Services struct {
	Auth          *service.AuthService
	Inspections   *service.InspectionService
	Rooms         *service.AreaService
	ExternalAreas *service.AreaService
	KeysMeters    *service.KeysMetersService
	Templates     *service.TemplateService
	Reports       *service.ReportService
	Opinions      *service.OpinionService
	Uploads       *service.UploadService
	CEP           *cep.Client
}

type Options struct {
	// Production hides error detail from responses.
	Production  bool
	CORSOrigins string
	// HealthCheck backs GET /healthz; nil always reports healthy.
	HealthCheck func(ctx context.Context) error
}

type Server struct {
	svc         Services
	mux         *http.ServeMux
	production  bool
	corsOrigins []string
	health      func(ctx context.Context) error
	logger      *slog.Logger
}

func NewServer(svc Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		svc:         svc,
		mux:         http.NewServeMux(),
		production:  opts.Production,
		corsOrigins: splitOrigins(opts.CORSOrigins),
		health:      opts.HealthCheck,
		logger:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("/", s.handleNotFound)

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/logout", s.requireAuth(s.handleLogout))
	s.mux.HandleFunc("GET /api/auth/profile", s.requireAuth(s.handleGetProfile))
	s.mux.HandleFunc("PUT /api/auth/profile", s.requireAuth(s.handleUpdateProfile))

	s.mux.HandleFunc("POST /api/inspections", s.requireAuth(s.handleCreateInspection))
	s.mux.HandleFunc("GET /api/inspections", s.requireAuth(s.handleListInspections))
	s.mux.HandleFunc("GET /api/inspections/summary", s.requireAuth(s.handleInspectionSummary))
	s.mux.HandleFunc("GET /api/inspections/{id}", s.requireAuth(s.handleGetInspection))
	s.mux.HandleFunc("PUT /api/inspections/{id}", s.requireAuth(s.handleUpdateInspection))
	s.mux.HandleFunc("DELETE /api/inspections/{id}", s.requireAuth(s.handleDeleteInspection))
	s.mux.HandleFunc("GET /api/inspections/{id}/report", s.requireAuth(s.handleReport))
	s.mux.HandleFunc("POST /api/inspections/{id}/opinion", s.requireAuth(s.handleOpinion))

	s.registerAreaRoutes("/api/rooms", s.svc.Rooms, "Room")
	s.registerAreaRoutes("/api/external-areas", s.svc.ExternalAreas, "External area")

	s.mux.HandleFunc("GET /api/keys-and-meters/inspection/{inspectionId}", s.requireAuth(s.handleGetKeysMeters))
	s.mux.HandleFunc("POST /api/keys-and-meters/inspection/{inspectionId}/checklist", s.requireAuth(s.handleSaveChecklist))
	s.mux.HandleFunc("POST /api/keys-and-meters/inspection/{inspectionId}/key", s.requireAuth(s.handleAddKey))
	s.mux.HandleFunc("POST /api/keys-and-meters/inspection/{inspectionId}/meter", s.requireAuth(s.handleAddMeter))
	s.mux.HandleFunc("PUT /api/keys-and-meters/key/{keyId}", s.requireAuth(s.handleUpdateKey))
	s.mux.HandleFunc("DELETE /api/keys-and-meters/key/{keyId}", s.requireAuth(s.handleDeleteKey))
	s.mux.HandleFunc("PUT /api/keys-and-meters/meter/{meterId}", s.requireAuth(s.handleUpdateMeter))
	s.mux.HandleFunc("DELETE /api/keys-and-meters/meter/{meterId}", s.requireAuth(s.handleDeleteMeter))

	s.mux.HandleFunc("POST /api/templates", s.requireAuth(s.handleCreateTemplate))
	s.mux.HandleFunc("GET /api/templates", s.requireAuth(s.handleListTemplates))
	s.mux.HandleFunc("GET /api/templates/{id}", s.requireAuth(s.handleGetTemplate))
	s.mux.HandleFunc("PUT /api/templates/{id}", s.requireAuth(s.handleUpdateTemplate))
	s.mux.HandleFunc("DELETE /api/templates/{id}", s.requireAuth(s.handleDeleteTemplate))

	s.mux.HandleFunc("POST /api/upload", s.requireAuth(s.handleUpload))
	s.mux.HandleFunc("GET /uploads/{key}", s.handleGetPhoto)

	s.mux.HandleFunc("GET /api/cep/{cep}", s.requireAuth(s.handleCEP))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// cors answers preflight requests and marks responses readable by the
// configured origins.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Set("Access-Control-Expose-Headers", "Content-Disposition")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.corsOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		info := &requestInfo{}
		next.ServeHTTP(rec, r.WithContext(withRequestInfo(r.Context(), info)))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if info.userID != "" {
			attrs = append(attrs, "user_id", info.userID)
		}
		logger.Info("request", attrs...)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.cors(s.mux))).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
