package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/services/device"
	"github.com/bbernstein/onair-go/pkg/vmix"
)

// deviceCommandRequest is a raw function call, e.g. {"command": "Function=Cut"}.
// IP and Port target a specific switcher; otherwise the current target is used.
type deviceCommandRequest struct {
	IP      string `json:"ip,omitempty"`
	Port    int    `json:"port,omitempty"`
	Command string `json:"command"`
}

// handleDeviceCommand forwards one command to the switcher, ordered with the
// sequencer's own commands.
func (a *API) handleDeviceCommand(w http.ResponseWriter, r *http.Request) {
	var req deviceCommandRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := vmix.ParseCommand(req.Command)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if req.IP != "" {
		port := req.Port
		if port <= 0 {
			port = vmix.DefaultPort
		}
		err = a.Device.ExecuteOn(ctx, config.DeviceTarget{Host: req.IP, Port: port}, cmd)
	} else {
		err = a.Device.Execute(ctx, cmd)
	}
	if errors.Is(err, device.ErrInvalidChannel) {
		a.fail(w, r, err)
		return
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("command", cmd.String()).Msg("device command failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "command": cmd.String()})
}

type deviceInputRequest struct {
	Input string `json:"input"`
}

// handleDeviceStatus reports the switcher commands are currently sent to.
func (a *API) handleDeviceStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"target": a.Device.Target()})
}

// handleDevicePreview loads an input into preview without taking it.
func (a *API) handleDevicePreview(w http.ResponseWriter, r *http.Request) {
	a.queueInput(w, r, a.Device.SetPreviewInput)
}

// handleDeviceActive switches program output straight to an input.
func (a *API) handleDeviceActive(w http.ResponseWriter, r *http.Request) {
	a.queueInput(w, r, a.Device.SetActiveInput)
}

func (a *API) queueInput(w http.ResponseWriter, r *http.Request, send func(string) error) {
	var req deviceInputRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if req.Input == "" {
		a.fail(w, r, fmt.Errorf("%w: input is required", errBadRequest))
		return
	}
	if err := send(req.Input); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true, "input": req.Input})
}
