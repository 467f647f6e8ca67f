package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database/repositories"
)

type settingRequest struct {
	Value string `json:"value"`
}

func (a *API) handleSettingsList(w http.ResponseWriter, r *http.Request) {
	settings, err := a.Settings.FindAll(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleSettingsPut stores a setting. The default switcher target is
// validated here and takes effect at the next start.
func (a *API) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	if key == repositories.SettingDefaultTarget {
		if _, err := config.ParseDeviceTarget("", req.Value); err != nil {
			a.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	setting, err := a.Settings.Upsert(r.Context(), key, req.Value)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}
