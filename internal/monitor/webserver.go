package monitor

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gemc-project/gemc-core/internal/glog"
)

// WebServer is the HTTP front end over Stats, grounded on the teacher's
// monitor.WebServer: a *http.Server wrapping a handler-registering mux,
// started in a goroutine and shut down on context cancellation.
type WebServer struct {
	address string
	stats   *Stats
	log     *glog.Logger
	server  *http.Server
}

// NewWebServer builds a WebServer bound to addr (e.g. ":8090"),
// reporting from stats.
func NewWebServer(addr string, stats *Stats, logger *glog.Logger) *WebServer {
	ws := &WebServer{address: addr, stats: stats, log: logger}
	ws.server = &http.Server{
		Addr:    addr,
		Handler: ws.routes(),
	}
	return ws
}

func (ws *WebServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/stats", ws.handleStatsJSON)
	mux.HandleFunc("/dashboard", ws.handleDashboard)
	mux.HandleFunc("/dashboard/world", ws.handleWorldChart)
	mux.HandleFunc("/dashboard/hits", ws.handleHitsChart)
	mux.HandleFunc("/dashboard/buffers", ws.handleBufferChart)
	return mux
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (ws *WebServer) handleStatsJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ws.stats.Snapshot())
}

func (ws *WebServer) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully with a short timeout — the same lifecycle the teacher's
// WebServer.Start implements.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		ws.log.Infof("monitor listening on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.log.Errorf("monitor server error: %v", err)
		}
	}()

	<-ctx.Done()
	ws.log.Infof("monitor shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("monitor: graceful shutdown failed: %v", err)
		return ws.server.Close()
	}
	return nil
}
