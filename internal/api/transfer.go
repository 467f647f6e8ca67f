package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	importservice "github.com/bbernstein/onair-go/internal/services/import"
)

type importRequest struct {
	Document json.RawMessage             `json:"document"`
	Options  importservice.ImportOptions `json:"options"`
}

type importResponse struct {
	RundownID string                     `json:"rundownId"`
	Stats     *importservice.ImportStats `json:"stats"`
	Warnings  []string                   `json:"warnings"`
}

func (a *API) handleRundownsExport(w http.ResponseWriter, r *http.Request) {
	exported, _, err := a.Exporter.ExportRundown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("rundown-%s.json", exported.Rundown.OriginalID)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, exported)
}

// handleRundownsImport takes an export document inline with import options.
func (a *API) handleRundownsImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if len(req.Document) == 0 {
		a.fail(w, r, fmt.Errorf("%w: document is required", errBadRequest))
		return
	}

	id, stats, warnings, err := a.Importer.ImportRundown(r.Context(), string(req.Document), req.Options)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusCreated, importResponse{RundownID: id, Stats: stats, Warnings: warnings})
}
