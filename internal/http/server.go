package http

import (
	"net/http"

	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/processor"
)

func NewServer(store ledger.Ledger, proc *processor.Processor, metricsHandler http.Handler, load Loader, output string) *Server {
	server := &Server{
		Ledger:         store,
		Processor:      proc,
		MetricsHandler: metricsHandler,
		Load:           load,
		Output:         output,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	if s.MetricsHandler != nil {
		s.Router.Handle("GET /metrics", s.MetricsHandler)
	}
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /process", Chain(s.ProcessHandler(), paramsMiddleware))
	s.Router.Handle("GET /standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /standings/{league}", Chain(s.LeagueTableHandler(), paramsMiddleware))
	s.Router.Handle("GET /events", Chain(s.EventsHandler(), paramsMiddleware))
	s.Router.Handle("GET /runs", Chain(s.ListRunsHandler(), paramsMiddleware))
	s.Router.Handle("GET /notified", Chain(s.ListNotifiedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
