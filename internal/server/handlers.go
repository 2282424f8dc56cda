package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jacksmith/kanban/internal/markdown"
	"github.com/jacksmith/kanban/internal/model"
)

// uploadResponse is the body returned by a successful upload.
type uploadResponse struct {
	Message      string         `json:"message"`
	Project      *model.Project `json:"project"`
	TasksCreated int            `json:"tasks_created"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Project not found")
			return
		}
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (s *Server) uploadProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "text/markdown" && !markdown.IsMarkdownFile(header.Filename) {
		respondError(w, http.StatusBadRequest, "Only markdown files (.md) are allowed")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read file content")
		return
	}

	board, err := markdown.Parse(string(content))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid markdown format: "+err.Error())
		return
	}

	project, created, err := s.store.ImportBoard(r.Context(), board)
	if err != nil {
		log.Printf("upload of %q failed: %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, "Failed to create tasks")
		return
	}

	respondJSON(w, http.StatusOK, uploadResponse{
		Message:      "Project uploaded successfully",
		Project:      project,
		TasksCreated: created,
	})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	if err := s.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Project not found")
			return
		}
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}

func (s *Server) listProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	tasks, err := s.store.ListTasks(r.Context(), id)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
			return
		}
		respondServerError(w, err)
		return
	}

	var patch model.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	// Ownership and timestamps are not client-editable.
	patch.ProjectID = nil
	patch.UpdatedAt = nil
	updated := task.Merge(patch)

	if err := s.store.SaveTask(ctx, &updated); err != nil {
		log.Printf("update of task %d failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
			return
		}
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

// parseID extracts the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, err.Error())
}
