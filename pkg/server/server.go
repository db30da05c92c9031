// Package server exposes the app's HTTP surface: the voice-conversion
// endpoint, the feedback relay, and the prebuilt client bundle.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jjh9707/Cerberus/pkg/feedback"
)

// VoiceConverter runs the conversion pipeline for one staged upload. It takes
// ownership of the staged file. Implemented by *convert.Converter; abstracted
// so handlers can be tested with a mock.
type VoiceConverter interface {
	Convert(ctx context.Context, stagedPath, text string) ([]byte, error)
}

// Config holds the server configuration.
type Config struct {
	Addr           string
	StaticDir      string  // empty disables static serving
	StageDir       string  // where uploads are staged; empty means system temp dir
	MaxUploadBytes int64   // cap on the audio part
	ConvertRate    float64 // conversion requests per second
	ConvertBurst   int
}

// Server is the application HTTP server.
type Server struct {
	config    Config
	converter VoiceConverter
	relay     *feedback.Relay
	limiter   *rate.Limiter

	httpServer *http.Server
}

// New creates the server.
func New(config Config, converter VoiceConverter, relay *feedback.Relay) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 10 << 20
	}
	limit := rate.Limit(config.ConvertRate)
	if config.ConvertRate <= 0 {
		limit = rate.Inf
	}
	burst := config.ConvertBurst
	if burst <= 0 {
		burst = 1
	}

	s := &Server{
		config:    config,
		converter: converter,
		relay:     relay,
		limiter:   rate.NewLimiter(limit, burst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert-voice", s.handleConvertVoice)
	mux.HandleFunc("/api/feedback", s.handleFeedback)
	if config.StaticDir != "" {
		mux.Handle("/", spaHandler(config.StaticDir))
	}

	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// ListenAndServe starts serving and blocks until the server stops.
func (s *Server) ListenAndServe() error {
	log.Printf("server listening on %s", s.config.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withCORS adds permissive CORS headers and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// apiResponse is the structured JSON body for non-audio responses.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

func writeAudio(w http.ResponseWriter, audio []byte) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		log.Printf("server: write audio: %v", err)
	}
}
