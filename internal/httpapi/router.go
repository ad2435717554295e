package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// Streams is the session layer served over HTTP.
type Streams interface {
	Open(w http.ResponseWriter, r *http.Request) error
	Deliver(id string, w http.ResponseWriter, r *http.Request) error
	Active() int
}

// Config configures the router.
type Config struct {
	Logger   *slog.Logger
	Streams  Streams
	BasePath string
}

type handler struct {
	log      *slog.Logger
	streams  Streams
	basePath string
}

// NewRouter returns the HTTP surface of the server:
//
//	GET  {base}                        open an event stream
//	POST {base}/messages?sessionId=ID  deliver a side-channel message
//	GET  /health                       liveness and session count
//
// OPTIONS on any path answers 204.
func NewRouter(cfg Config) http.Handler {
	h := &handler{
		log:      cfg.Logger.With("component", "http"),
		streams:  cfg.Streams,
		basePath: cfg.BasePath,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.MethodNotAllowed(methodNotAllowed)

	r.Get(h.basePath, h.openStream)
	r.Post(h.basePath+"/messages", h.deliverMessage)
	r.Get("/health", h.health)

	return r
}

// cors sets the CORS headers on every response and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "content-type, authorization")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func (h *handler) openStream(w http.ResponseWriter, r *http.Request) {
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	err := h.streams.Open(ww, r)
	if err == nil {
		return
	}

	if ww.Status() == 0 {
		h.log.Warn("Failed to establish stream", "error", err)
		http.Error(ww, "Failed to establish SSE connection", http.StatusInternalServerError)

		return
	}

	h.log.Warn("Stream ended with error", "error", err)
}

func (h *handler) deliverMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		http.Error(w, "Missing sessionId", http.StatusBadRequest)

		return
	}

	err := h.streams.Deliver(id, w, r)

	switch {
	case err == nil:
	case errors.Is(err, serrors.ErrUnknownSession):
		h.log.Debug("Message for unknown session", "session_id", id)
		http.Error(w, "Unknown session", http.StatusNotFound)
	default:
		h.log.Warn("Failed to process message", "session_id", id, "error", err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
	}
}

type healthResponse struct {
	OK       bool   `json:"ok"`
	Path     string `json:"path"`
	Sessions int    `json:"sessions"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:       true,
		Path:     h.basePath,
		Sessions: h.streams.Active(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
