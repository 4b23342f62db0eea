// Package api serves scalebar layouts, rendered images, presets and sweeps
// over HTTP.
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/db"
	"github.com/banshee-data/scalebar/internal/httputil"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/sweep"
	"github.com/banshee-data/scalebar/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

var (
	errBadQuery = errors.New("invalid query parameter")
	errNoStore  = errors.New("presets store is not configured")
)

type Server struct {
	cfg *config.ScalebarConfig
	db  *db.DB
}

// NewServer returns a server using cfg as the defaults for every request.
// store may be nil, in which case preset routes answer 503.
func NewServer(cfg *config.ScalebarConfig, store *db.DB) *Server {
	if cfg == nil {
		cfg = config.DefaultScalebarConfig()
	}
	return &Server{
		cfg: cfg,
		db:  store,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scalebar", s.showScalebar)
	mux.HandleFunc("/api/scalebar.png", s.renderPNG)
	mux.HandleFunc("/api/scalebar.svg", s.renderSVG)
	mux.HandleFunc("/api/presets", s.handlePresetsOrCreate)
	mux.HandleFunc("/api/presets/", s.handlePresetByID)
	mux.HandleFunc("/api/sweep", s.showSweep)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

// writeError maps err onto a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrPresetNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, db.ErrPresetExists):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, errNoStore):
		httputil.ServiceUnavailable(w, err.Error())
	case errors.Is(err, errBadQuery),
		errors.Is(err, db.ErrInvalidPreset),
		errors.Is(err, layout.ErrInvalidRequest),
		errors.Is(err, sweep.ErrInvalidParams):
		httputil.BadRequest(w, err.Error())
	default:
		log.Printf("internal error: %v", err)
		httputil.InternalServerError(w, "internal server error")
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"defaults":   s.cfg,
		"presets":    s.db != nil,
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}
