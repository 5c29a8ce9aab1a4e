package server

import (
	"net/http"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// labelResponse is a label with the number of tasks carrying it.
type labelResponse struct {
	model.Label
	Tasks int `json:"tasks"`
}

func labelUsage(b *model.Board) map[string]int {
	use := make(map[string]int, len(b.Labels))
	for _, t := range b.Tasks {
		for _, l := range t.Labels {
			use[l]++
		}
	}
	return use
}

// handleListLabels handles GET /v1/labels.
func (s *BoardServer) handleListLabels(w http.ResponseWriter, _ *http.Request) {
	b := s.Board()
	use := labelUsage(b)
	labels := store.SortedLabels(b)
	out := make([]labelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelResponse{Label: l, Tasks: use[l.ID]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"labels": out})
}

type addLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// handleAddLabel handles POST /v1/labels.
func (s *BoardServer) handleAddLabel(w http.ResponseWriter, r *http.Request) {
	var req addLabelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	out, err := s.AddLabel(r.Context(), req.Name, req.Color)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Board.Labels[out.LabelID])
}

// handleEditLabel handles PATCH /v1/labels/{id}.
func (s *BoardServer) handleEditLabel(w http.ResponseWriter, r *http.Request) {
	var patch engine.LabelPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := r.PathValue("id")
	out, err := s.EditLabel(r.Context(), id, patch)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Board.Labels[id])
}

// handleDeleteLabel handles DELETE /v1/labels/{id}. The response lists the
// tasks the label was removed from.
func (s *BoardServer) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	out, err := s.DeleteLabel(r.Context(), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	affected := out.Affected
	if affected == nil {
		affected = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"label_id": id, "affected": affected})
}
