// Package server is the development API server. It speaks the same REST
// contract the client expects, backed by SQLite.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/sprintboard/internal/service"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// Services are the use cases the handlers call.
type Services struct {
	Auth     service.AuthService
	Projects service.ProjectService
	Backlog  service.BacklogService
	Sprints  service.SprintService
	Tasks    service.TaskService
}

type Server struct {
	svc    Services
	logger zerolog.Logger
	router *mux.Router
}

func New(svc Services, logger zerolog.Logger) *Server {
	s := &Server{svc: svc, logger: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

// Handler returns the root handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(s.withRequestID, s.withLogging)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "no such endpoint")
	})

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")

	priv := api.NewRoute().Subrouter()
	priv.Use(s.withAuth)
	priv.HandleFunc("/auth/me", s.handleMe).Methods("GET")

	priv.HandleFunc("/projects", s.handleListProjects).Methods("GET")
	priv.HandleFunc("/projects", s.handleCreateProject).Methods("POST")
	priv.HandleFunc("/projects/{id}", s.handleGetProject).Methods("GET")
	priv.HandleFunc("/projects/{id}", s.handleUpdateProject).Methods("PUT")
	priv.HandleFunc("/projects/{id}", s.handleDeleteProject).Methods("DELETE")

	priv.HandleFunc("/projects/{project}/productBacklog", s.handleListBacklog).Methods("GET")
	priv.HandleFunc("/projects/{project}/productBacklog", s.handleCreateBacklog).Methods("POST")
	priv.HandleFunc("/projects/{project}/productBacklog/{id}", s.handleGetBacklog).Methods("GET")
	priv.HandleFunc("/projects/{project}/productBacklog/{id}", s.handleUpdateBacklog).Methods("PUT")
	priv.HandleFunc("/projects/{project}/productBacklog/{id}", s.handleDeleteBacklog).Methods("DELETE")

	priv.HandleFunc("/projects/{project}/sprints", s.handleListSprints).Methods("GET")
	priv.HandleFunc("/projects/{project}/sprints", s.handleCreateSprint).Methods("POST")
	priv.HandleFunc("/projects/{project}/sprints/{id}", s.handleGetSprint).Methods("GET")
	priv.HandleFunc("/projects/{project}/sprints/{id}", s.handleUpdateSprint).Methods("PUT")
	priv.HandleFunc("/projects/{project}/sprints/{id}", s.handleDeleteSprint).Methods("DELETE")

	priv.HandleFunc("/tasks/task/{id}", s.handleGetTask).Methods("GET")
	priv.HandleFunc("/tasks/task/{id}", s.handleUpdateTask).Methods("PUT")
	priv.HandleFunc("/tasks/task/{id}", s.handleDeleteTask).Methods("DELETE")
	priv.HandleFunc("/tasks/task/{id}/status", s.handleUpdateTaskStatus).Methods("PATCH")
	priv.HandleFunc("/tasks/user/{user}", s.handleListUserTasks).Methods("GET")
	priv.HandleFunc("/tasks/{project}", s.handleListTasks).Methods("GET")
	priv.HandleFunc("/tasks/{project}", s.handleCreateTask).Methods("POST")
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) Run(ctx context.Context, addr string, ready func(addr string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("server_listening")
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("server_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
