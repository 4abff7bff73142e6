package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/snacksense/backend/internal/analysis"
	"github.com/snacksense/backend/internal/auth"
	"github.com/snacksense/backend/internal/database"
	"github.com/snacksense/backend/internal/scanner"
)

// Server exposes the auth/profile API over HTTP and the scan pipeline over a
// WebSocket. Every dependency is constructed at startup and injected here.
type Server struct {
	db       database.DB
	auth     *auth.Service
	catalog  scanner.Catalog
	analyzer analysis.Analyzer
	debug    bool
}

// New builds a server over its dependencies.
func New(db database.DB, authSvc *auth.Service, catalog scanner.Catalog, analyzer analysis.Analyzer, debug bool) *Server {
	if debug {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Println("Debug logging enabled")
	}
	return &Server{
		db:       db,
		auth:     authSvc,
		catalog:  catalog,
		analyzer: analyzer,
		debug:    debug,
	}
}

// Routes assembles the HTTP surface.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/api/auth/logout", s.requireAuth(s.handleLogout)).Methods("POST")

	r.HandleFunc("/api/profile", s.requireAuth(s.handleGetProfile)).Methods("GET")
	r.HandleFunc("/api/profile", s.requireAuth(s.handleSaveProfile)).Methods("PUT")

	r.HandleFunc("/api/scans", s.requireAuth(s.handleScanHistory)).Methods("GET")
	r.HandleFunc("/api/navigation", s.requireAuth(s.handleNavigation)).Methods("GET")

	r.HandleFunc("/ws", s.handleScannerSocket)
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	return r
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(port string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.Routes(),
	}

	go func() {
		log.Printf("Starting server on port %s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
