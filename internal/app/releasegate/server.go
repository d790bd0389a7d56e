package releasegate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/roemer/releasegate/pkg/gate"
)

// Serves the update route for the tauri updater.
type Server struct {
	logger      *slog.Logger
	gate        *gate.UpdateGate
	hasProject  func(projectId string) bool
	routePrefix string
}

func NewServer(logger *slog.Logger, updateGate *gate.UpdateGate, hasProject func(projectId string) bool, routePrefix string) *Server {
	return &Server{
		logger:      logger.With(slog.String("component", "server")),
		gate:        updateGate,
		hasProject:  hasProject,
		routePrefix: routePrefix,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("GET %s/{project}/{platform}/{version}", s.routePrefix), s.handleUpdate)
	return s.logRequests(mux)
}

// Answers with the latest release if it is newer than the version of the client, otherwise with 204.
// A request with a "msg" parameter is a report from the client that is only logged.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	projectId := r.PathValue("project")
	platform := r.PathValue("platform")
	currentVersion := r.PathValue("version")

	if !s.hasProject(projectId) {
		http.Error(w, fmt.Sprintf("%s: '%s'", common.ErrUnknownProject, projectId), http.StatusNotFound)
		return
	}
	if query := r.URL.Query(); query.Has("msg") {
		s.logger.Info(fmt.Sprintf("Message from '%s' client on %s %s: %s", projectId, platform, currentVersion, query.Get("msg")))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	release, hasUpdate := s.gate.CheckForUpdate(r.Context(), projectId, platform, currentVersion)
	if !hasUpdate {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(release); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed writing the response: %v", err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug(fmt.Sprintf("%s %s -> %d in %s", r.Method, r.URL.Path, recorder.status, time.Since(start).Round(time.Microsecond)))
	})
}
