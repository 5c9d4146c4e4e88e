// relayd is the pose frame relay daemon.  Capture processes POST frames in
// the JSON or compact binary wire format, or push them over a WebSocket
// connection, and every connected WebSocket client receives them.  The
// relay is fire and forget: no acknowledgement, no ordering beyond arrival
// order, no replay for late joiners.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/poseworks/go-posekit/relay"
)

const shutdownTimeout = 10 * time.Second

// server bundles the relay hub with its metrics and logger
type server struct {
	hub *relay.Hub
	met *metrics
	log *slog.Logger
}

func main() {
	_ = loadEnv()

	port := getEnv("PORT", "8093")
	logLevel := getEnv("LOG_LEVEL", "info")
	readLimit := getEnvInt("READ_LIMIT", 1<<20)

	log := newLogger(logLevel)
	met := newMetrics()

	hub := relay.NewHub(log)
	hub.ReadLimit = int64(readLimit)
	hub.OnMessage = func(data []byte) {
		met.framesReceived.Inc()
	}
	hub.OnBroadcast = func(delivered int) {
		if delivered > 0 {
			met.framesBroadcast.Inc()
		}
	}

	s := &server{
		hub: hub,
		met: met,
		log: log,
	}

	r := chi.NewRouter()
	r.Get("/ws", hub.ServeWS)
	r.Post("/frames", s.ingestFrame)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.handler(func() {
			met.connectedClients.Set(float64(hub.ClientCount()))
		}).ServeHTTP(w, r)
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Info("relayd listening", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

// ingestFrame accepts one pose message over HTTP and fans it out to all
// connected WebSocket clients.  JSON bodies are validated and forwarded
// verbatim; application/octet-stream bodies are decoded from the compact
// binary format and forwarded as JSON.
func (s *server) ingestFrame(w http.ResponseWriter, r *http.Request) {

	body, err := io.ReadAll(io.LimitReader(r.Body, s.hub.ReadLimit))

	if err != nil {
		s.met.framesMalformed.Inc()
		http.Error(w, "error reading body", http.StatusBadRequest)
		return
	}

	var msg relay.PoseMessage

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/octet-stream") {
		msg, err = relay.DecodeBinary(body)
	} else {
		msg, err = relay.Decode(body)
	}

	if err != nil {
		s.met.framesMalformed.Inc()
		s.log.Debug("rejected malformed frame", "error", err)
		http.Error(w, "malformed frame", http.StatusBadRequest)
		return
	}

	data, err := json.Marshal(msg)

	if err != nil {
		http.Error(w, "error encoding frame", http.StatusInternalServerError)
		return
	}

	s.met.framesReceived.Inc()

	sent := s.hub.Broadcast(data)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"delivered": sent})
}

// newLogger creates a JSON slog logger at the given level
func newLogger(level string) *slog.Logger {

	var lvl slog.Level

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
}
