package server

import (
	"net/http"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// taskResponse is a task together with the column holding it.
type taskResponse struct {
	model.Task
	ColumnID string          `json:"column_id"`
	Due      model.DueStatus `json:"due_status"`
}

func (s *BoardServer) taskResponse(b *model.Board, id string) taskResponse {
	t := b.Tasks[id]
	if t.Labels == nil {
		t.Labels = []string{}
	}
	due := model.Classify(t.DueDate, s.Today())
	if b.IsTerminal(id) {
		due = model.DueNone
	}
	return taskResponse{Task: t, ColumnID: b.ColumnOf(id), Due: due}
}

// handleAddTask handles POST /v1/tasks.
func (s *BoardServer) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var in engine.TaskInput
	if err := decodeTaskBody(r, &in); err != nil {
		s.rejectBody(w, r, "add task", err)
		return
	}
	out, err := s.AddTask(r.Context(), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.taskResponse(out.Board, out.TaskID))
}

// handleGetTask handles GET /v1/tasks/{id}.
func (s *BoardServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b := s.Board()
	if _, ok := b.Tasks[id]; !ok {
		writeOpError(w, &model.NotFoundError{Kind: "task", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, s.taskResponse(b, id))
}

// editTaskRequest is the PATCH body. ClearDueDate removes the due date, since
// a JSON null cannot be told apart from an absent field.
type editTaskRequest struct {
	engine.TaskPatch
	ClearDueDate bool `json:"clear_due_date,omitempty"`
}

// handleEditTask handles PATCH /v1/tasks/{id}.
func (s *BoardServer) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var req editTaskRequest
	if err := decodeTaskBody(r, &req); err != nil {
		s.rejectBody(w, r, "edit task", err)
		return
	}
	patch := req.TaskPatch
	if req.ClearDueDate {
		patch.DueDate = &model.Date{}
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	out, err := s.EditTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.taskResponse(out.Board, r.PathValue("id")))
}

// handleDeleteTask handles DELETE /v1/tasks/{id}.
func (s *BoardServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.DeleteTask(r.Context(), id); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveTaskRequest struct {
	FromColumn string `json:"from_column,omitempty"`
	FromIndex  int    `json:"from_index,omitempty"`
	ToColumn   string `json:"to_column"`
	ToIndex    int    `json:"to_index"`
}

type moveTaskResponse struct {
	Task       taskResponse      `json:"task"`
	FromColumn string            `json:"from_column"`
	ToColumn   string            `json:"to_column"`
	Transition engine.Transition `json:"transition,omitempty"`
}

// handleMoveTask handles POST /v1/tasks/{id}/move.
func (s *BoardServer) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req moveTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ToColumn == "" {
		writeError(w, http.StatusBadRequest, "to_column is required")
		return
	}
	id := r.PathValue("id")
	out, err := s.MoveTask(r.Context(), engine.MoveRequest{
		TaskID:     id,
		FromColumn: req.FromColumn,
		FromIndex:  req.FromIndex,
		ToColumn:   req.ToColumn,
		ToIndex:    req.ToIndex,
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	resp := moveTaskResponse{
		Task:       s.taskResponse(out.Board, id),
		FromColumn: out.FromColumn,
		ToColumn:   out.ToColumn,
		Transition: out.Transition,
	}
	if resp.ToColumn == "" {
		// No-op move: the task stayed where it was.
		resp.FromColumn = resp.Task.ColumnID
		resp.ToColumn = resp.Task.ColumnID
	}
	writeJSON(w, http.StatusOK, resp)
}
