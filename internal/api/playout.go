package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database/models"
)

type playoutLoadRequest struct {
	PlaylistID string               `json:"playlistId,omitempty"`
	Name       string               `json:"name,omitempty"`
	Items      []models.PlayoutItem `json:"items,omitempty"`
}

type playoutSaveRequest struct {
	Name string `json:"name"`
}

func (a *API) handlePlayoutStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Sequencer.Status())
}

// handlePlayoutLoad loads a saved playlist by ID, or an inline item list.
func (a *API) handlePlayoutLoad(w http.ResponseWriter, r *http.Request) {
	var req playoutLoadRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	if req.PlaylistID != "" {
		playlist, err := found(a.Playlists.FindByID(r.Context(), req.PlaylistID))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		if err := a.Sequencer.LoadPlaylist(playlist); err != nil {
			a.fail(w, r, err)
			return
		}
	} else if err := a.Sequencer.Load(req.Name, req.Items); err != nil {
		a.fail(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, a.Sequencer.Status())
}

func (a *API) handlePlayoutNext(w http.ResponseWriter, _ *http.Request) {
	advanced := a.Sequencer.PlayNext()
	writeJSON(w, http.StatusOK, map[string]any{
		"advanced": advanced,
		"status":   a.Sequencer.Status(),
	})
}

func (a *API) handlePlayoutStop(w http.ResponseWriter, _ *http.Request) {
	a.Sequencer.Stop()
	writeJSON(w, http.StatusOK, a.Sequencer.Status())
}

func (a *API) handlePlayoutAddItem(w http.ResponseWriter, r *http.Request) {
	var item models.PlayoutItem
	if err := decodeJSON(r, &item); err != nil {
		a.fail(w, r, err)
		return
	}
	added, err := a.Sequencer.AddItem(item)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// handlePlayoutSave persists the current queue as a new playlist.
func (a *API) handlePlayoutSave(w http.ResponseWriter, r *http.Request) {
	var req playoutSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	st := a.Sequencer.Status()
	name := req.Name
	if name == "" {
		name = st.Name
	}
	playlist := &models.Playlist{Name: name, Items: st.Queue}
	if err := a.Playlists.Create(r.Context(), playlist); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (a *API) handlePlayoutTarget(w http.ResponseWriter, r *http.Request) {
	var target config.DeviceTarget
	if err := decodeJSON(r, &target); err != nil {
		a.fail(w, r, err)
		return
	}
	if target.IsZero() {
		a.fail(w, r, fmt.Errorf("%w: ip and port are required", errBadRequest))
		return
	}
	a.Sequencer.SetTarget(target)
	writeJSON(w, http.StatusOK, a.Sequencer.Status())
}

func (a *API) handlePlayoutLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			a.fail(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, v))
			return
		}
		limit = n
	}
	entries, err := a.Logs.FindRecent(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
