package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bbernstein/onair-go/internal/database/models"
)

func (a *API) handleProgramsList(w http.ResponseWriter, r *http.Request) {
	programs, err := a.Programs.FindAll(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

func (a *API) handleProgramsCreate(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := decodeJSON(r, &program); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Programs.Create(r.Context(), &program); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, program)
}

func (a *API) handleProgramsGet(w http.ResponseWriter, r *http.Request) {
	program, err := found(a.Programs.FindByID(r.Context(), chi.URLParam(r, "id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (a *API) handleProgramsUpdate(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := decodeJSON(r, &program); err != nil {
		a.fail(w, r, err)
		return
	}
	program.ID = chi.URLParam(r, "id")
	if err := a.Programs.Update(r.Context(), &program); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (a *API) handleProgramsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Programs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleStoriesList(w http.ResponseWriter, r *http.Request) {
	stories, err := a.Stories.FindAll(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (a *API) handleStoriesCreate(w http.ResponseWriter, r *http.Request) {
	var story models.Story
	if err := decodeJSON(r, &story); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Stories.Create(r.Context(), &story); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, story)
}

func (a *API) handleStoriesGet(w http.ResponseWriter, r *http.Request) {
	story, err := found(a.Stories.FindByID(r.Context(), chi.URLParam(r, "id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

func (a *API) handleStoriesUpdate(w http.ResponseWriter, r *http.Request) {
	var story models.Story
	if err := decodeJSON(r, &story); err != nil {
		a.fail(w, r, err)
		return
	}
	story.ID = chi.URLParam(r, "id")
	if err := a.Stories.Update(r.Context(), &story); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// handleStoriesDelete also clears the story from rundown items that reference it.
func (a *API) handleStoriesDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Stories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAssetsList(w http.ResponseWriter, r *http.Request) {
	var (
		assets []models.Asset
		err    error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		assets, err = a.Assets.Search(r.Context(), q)
	} else {
		assets, err = a.Assets.FindAll(r.Context())
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (a *API) handleAssetsCreate(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := decodeJSON(r, &asset); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Assets.Create(r.Context(), &asset); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (a *API) handleAssetsGet(w http.ResponseWriter, r *http.Request) {
	asset, err := found(a.Assets.FindByID(r.Context(), chi.URLParam(r, "id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (a *API) handleAssetsUpdate(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := decodeJSON(r, &asset); err != nil {
		a.fail(w, r, err)
		return
	}
	asset.ID = chi.URLParam(r, "id")
	if err := a.Assets.Update(r.Context(), &asset); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (a *API) handleAssetsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Assets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handlePlaylistsList(w http.ResponseWriter, r *http.Request) {
	playlists, err := a.Playlists.FindAll(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (a *API) handlePlaylistsCreate(w http.ResponseWriter, r *http.Request) {
	var playlist models.Playlist
	if err := decodeJSON(r, &playlist); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Playlists.Save(r.Context(), &playlist); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (a *API) handlePlaylistsGet(w http.ResponseWriter, r *http.Request) {
	playlist, err := found(a.Playlists.FindByID(r.Context(), chi.URLParam(r, "id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (a *API) handlePlaylistsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Playlists.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
