package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/services/rundown"
)

type rundownCreateRequest struct {
	ProgramID string `json:"programId"`
	Date      string `json:"date"`
	Title     string `json:"title"`
}

type itemAddRequest struct {
	Type  models.RundownItemType `json:"type"`
	Slug  string                 `json:"slug"`
	Index *int                   `json:"index,omitempty"` // Appends when absent
}

type linkAssetRequest struct {
	AssetID string `json:"assetId"`
}

func (a *API) handleRundownsList(w http.ResponseWriter, r *http.Request) {
	var (
		rundowns []models.Rundown
		err      error
	)
	if programID := r.URL.Query().Get("programId"); programID != "" {
		rundowns, err = a.Rundowns.FindByProgramID(r.Context(), programID)
	} else {
		rundowns, err = a.Rundowns.FindAll(r.Context())
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rundowns)
}

func (a *API) handleRundownsCreate(w http.ResponseWriter, r *http.Request) {
	var req rundownCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if req.ProgramID == "" {
		a.fail(w, r, fmt.Errorf("%w: programId is required", errBadRequest))
		return
	}
	created, err := a.RundownService.Create(r.Context(), req.ProgramID, req.Date, req.Title)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleRundownsGet(w http.ResponseWriter, r *http.Request) {
	rd, err := a.RundownService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rd)
}

func (a *API) handleRundownsUpdate(w http.ResponseWriter, r *http.Request) {
	var patch rundown.RundownPatch
	if err := decodeJSON(r, &patch); err != nil {
		a.fail(w, r, err)
		return
	}
	updated, err := a.RundownService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleRundownsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Rundowns.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRundownTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := a.RundownService.Timeline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// handleRundownTranslate previews the playout queue without loading it.
func (a *API) handleRundownTranslate(w http.ResponseWriter, r *http.Request) {
	rd, err := a.RundownService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Translator.Translate(r.Context(), rd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRundownSendToPlayout translates the rundown and loads it into the sequencer.
func (a *API) handleRundownSendToPlayout(w http.ResponseWriter, r *http.Request) {
	rd, err := a.RundownService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Translator.Translate(r.Context(), rd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Sequencer.LoadFromTranslation(res); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Sequencer.Status())
}

func (a *API) handleItemsAdd(w http.ResponseWriter, r *http.Request) {
	var req itemAddRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")

	var (
		updated *models.Rundown
		err     error
	)
	if req.Index != nil {
		updated, err = a.RundownService.InsertItem(r.Context(), id, *req.Index, rundown.NewItem(req.Type, req.Slug))
	} else {
		updated, err = a.RundownService.AddItem(r.Context(), id, req.Type, req.Slug)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

func (a *API) handleItemsUpdate(w http.ResponseWriter, r *http.Request) {
	var patch rundown.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		a.fail(w, r, err)
		return
	}
	updated, err := a.RundownService.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleItemsDelete(w http.ResponseWriter, r *http.Request) {
	updated, err := a.RundownService.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleItemsLinkAsset(w http.ResponseWriter, r *http.Request) {
	var req linkAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	updated, err := a.RundownService.LinkAsset(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.AssetID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleItemsUnlinkAsset(w http.ResponseWriter, r *http.Request) {
	updated, err := a.RundownService.UnlinkAsset(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
