package server

import (
	"net/http"

	"github.com/kokorolabs/soulscope/internal/utils"
	"github.com/kokorolabs/soulscope/pkg/masterdata"
)

type Server struct {
	Store *masterdata.Store
}

func New(store *masterdata.Store) *Server {
	return &Server{Store: store}
}

// Handler builds the route table. Split out from Start so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /diagnose", s.handleDiagnose)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}
