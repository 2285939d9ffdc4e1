package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var cred domain.Credentials
	if !decode(w, r, &cred) {
		return
	}
	res, err := s.svc.Auth.Register(r.Context(), cred)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cred domain.Credentials
	if !decode(w, r, &cred) {
		return
	}
	res, err := s.svc.Auth.Login(r.Context(), cred.Email, cred.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currentUser(r.Context()))
}

// Projects

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Projects.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if !decode(w, r, &p) {
		return
	}
	if p.Owner == "" {
		if u := currentUser(r.Context()); u != nil {
			p.Owner = u.Name
		}
	}
	if err := s.svc.Projects.Create(r.Context(), &p); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if !decode(w, r, &p) {
		return
	}
	updated, err := s.svc.Projects.Update(r.Context(), mux.Vars(r)["id"], &p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Product backlog

func (s *Server) handleListBacklog(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Backlog.ListByProject(r.Context(), mux.Vars(r)["project"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateBacklog(w http.ResponseWriter, r *http.Request) {
	b := domain.NewBacklogItem()
	if !decode(w, r, &b) {
		return
	}
	if err := s.svc.Backlog.Create(r.Context(), mux.Vars(r)["project"], &b); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBacklog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	b, err := s.svc.Backlog.GetByID(r.Context(), vars["project"], vars["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBacklog(w http.ResponseWriter, r *http.Request) {
	b := domain.NewBacklogItem()
	if !decode(w, r, &b) {
		return
	}
	vars := mux.Vars(r)
	updated, err := s.svc.Backlog.Update(r.Context(), vars["project"], vars["id"], &b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBacklog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.svc.Backlog.Delete(r.Context(), vars["project"], vars["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sprints

func (s *Server) handleListSprints(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Sprints.ListByProject(r.Context(), mux.Vars(r)["project"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSprint(w http.ResponseWriter, r *http.Request) {
	var sp domain.Sprint
	if !decode(w, r, &sp) {
		return
	}
	if err := s.svc.Sprints.Create(r.Context(), mux.Vars(r)["project"], &sp); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sp)
}

func (s *Server) handleGetSprint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sp, err := s.svc.Sprints.GetByID(r.Context(), vars["project"], vars["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sp)
}

func (s *Server) handleUpdateSprint(w http.ResponseWriter, r *http.Request) {
	var sp domain.Sprint
	if !decode(w, r, &sp) {
		return
	}
	vars := mux.Vars(r)
	updated, err := s.svc.Sprints.Update(r.Context(), vars["project"], vars["id"], &sp)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSprint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.svc.Sprints.Delete(r.Context(), vars["project"], vars["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tasks

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Tasks.ListByProject(r.Context(), mux.Vars(r)["project"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleListUserTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Tasks.ListByAssignee(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var t domain.Task
	if !decode(w, r, &t) {
		return
	}
	if err := s.svc.Tasks.Create(r.Context(), mux.Vars(r)["project"], &t); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var t domain.Task
	if !decode(w, r, &t) {
		return
	}
	updated, err := s.svc.Tasks.Update(r.Context(), mux.Vars(r)["id"], &t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.Status `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	updated, err := s.svc.Tasks.UpdateStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
