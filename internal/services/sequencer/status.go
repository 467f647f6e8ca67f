package sequencer

import (
	"time"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/timecode"
)

// State is the sequencer's playback state.
type State string

const (
	StateIdle    State = "IDLE"
	StatePlaying State = "PLAYING"
)

// Status is a point-in-time copy of the sequencer state.
type Status struct {
	State          State                `json:"state"`
	Name           string               `json:"name"`
	NowPlaying     *models.PlayoutItem  `json:"nowPlaying"`
	Next           *models.PlayoutItem  `json:"next"`
	Elapsed        int                  `json:"elapsedSeconds"`
	Remaining      int                  `json:"remainingSeconds"`
	ElapsedText    string               `json:"elapsed"`
	RemainingText  string               `json:"remaining"`
	Queue          []models.PlayoutItem `json:"queue"`
	TotalDuration  string               `json:"totalDuration"`
	Target         config.DeviceTarget  `json:"target"`
	StartedAt      *time.Time           `json:"startedAt,omitempty"`
	ActiveOverlays []int                `json:"activeOverlays"`
	LastUpdated    time.Time            `json:"lastUpdated"`
}

func formatStatusDurations(st *Status) {
	st.ElapsedText = timecode.FormatDuration(st.Elapsed)
	st.RemainingText = timecode.FormatDuration(st.Remaining)
}
