// Package httpapi serves the catalog and the enquiry form over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dp-catalog/internal/catalog"
	"dp-catalog/internal/enquiry"
	"dp-catalog/internal/projections"
)

// Submitter runs one enquiry submission.
type Submitter interface {
	Submit(ctx context.Context, req enquiry.Request) enquiry.Outcome
}

// StatsReader reads the enquiry projections.
type StatsReader interface {
	Stats(ctx context.Context, top, days int) (*projections.Stats, error)
}

type Options struct {
	Stats          StatsReader // nil disables /api/stats/enquiries
	Logger         *zap.Logger
	MaxBodyBytes   int64
	AllowedOrigins []string // nil allows any origin; empty allows none
}

type Server struct {
	catalog   *catalog.Catalog
	enquiries Submitter
	stats     StatsReader
	logger    *zap.Logger
	maxBody   int64
	origins   []string
}

func NewServer(cat *catalog.Catalog, enquiries Submitter, opts Options) *Server {
	s := &Server{
		catalog:   cat,
		enquiries: enquiries,
		stats:     opts.Stats,
		logger:    opts.Logger,
		maxBody:   opts.MaxBodyBytes,
		origins:   opts.AllowedOrigins,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxBody <= 0 {
		s.maxBody = 1 << 20
	}
	if s.origins == nil {
		s.origins = []string{"*"}
	}
	return s
}

// RegisterRoutes wires the API routes onto r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/api/categories", s.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/categories/{id}", s.getCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{slug}", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/contact", s.contact).Methods(http.MethodPost)
	r.HandleFunc("/api/stats/enquiries", s.enquiryStats).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, errorBody{Message: "Method not allowed"})
	})
}

// Handler returns the routed API wrapped in the middleware stack. The stack
// wraps the router itself so that 404, 405 and preflight responses pass
// through it as well.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.RegisterRoutes(r)
	return chain(r,
		requestID(),
		accessLog(s.logger),
		recoverer(s.logger),
		cors(s.origins),
		limitBody(s.maxBody),
	)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
