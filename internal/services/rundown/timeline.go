// Package rundown edits rundowns and derives their broadcast timeline.
package rundown

import (
	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/timecode"
)

// TimelineEntry is the computed wall-clock span of one rundown item.
type TimelineEntry struct {
	ItemID    string `json:"itemId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Timeline is the schedule of a rundown relative to its on-air cursor.
type Timeline struct {
	RundownID     string          `json:"rundownId"`
	StartTime     string          `json:"startTime"`
	TotalDuration string          `json:"totalDuration"`
	EndTime       string          `json:"endTime"`
	Remaining     string          `json:"remaining"`
	OnAirItemID   *string         `json:"onAirItemId,omitempty"`
	Entries       []TimelineEntry `json:"entries"`
}

// BuildTimeline lays items end to end from startTime in a single forward pass.
// Items are assumed contiguous: item i+1 starts where item i ends.
func BuildTimeline(startTime string, items []models.RundownItem) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(items))
	running := timecode.ParseDuration(startTime)
	for _, item := range items {
		start := timecode.FormatTimeOfDay(running)
		running += timecode.ParseDuration(item.EstimatedDuration)
		entries = append(entries, TimelineEntry{
			ItemID:    item.ID,
			StartTime: start,
			EndTime:   timecode.FormatTimeOfDay(running),
		})
	}
	return entries
}

// OnAirIndex returns the index of the on-air item, or -1 when none is.
// If several items are ON_AIR the lowest index wins.
func OnAirIndex(items []models.RundownItem) int {
	for i := range items {
		if items[i].Status == models.ItemStatusOnAir {
			return i
		}
	}
	return -1
}

// RemainingSeconds returns the estimated time left in the show: the items
// strictly after the on-air item, or every item when nothing is on air.
func RemainingSeconds(items []models.RundownItem) int {
	from := OnAirIndex(items) + 1
	remaining := 0
	for _, item := range items[from:] {
		remaining += timecode.ParseDuration(item.EstimatedDuration)
	}
	return remaining
}

// ComputeTimeline derives the full timeline view of r.
func ComputeTimeline(r *models.Rundown) *Timeline {
	total := 0
	for _, item := range r.Items {
		total += timecode.ParseDuration(item.EstimatedDuration)
	}

	tl := &Timeline{
		RundownID:     r.ID,
		StartTime:     timecode.FormatTimeOfDay(timecode.ParseDuration(r.StartTime)),
		TotalDuration: timecode.FormatDuration(total),
		Remaining:     timecode.FormatDuration(RemainingSeconds(r.Items)),
		Entries:       BuildTimeline(r.StartTime, r.Items),
	}
	tl.EndTime = timecode.AddDurations(r.StartTime, tl.TotalDuration)
	if idx := OnAirIndex(r.Items); idx >= 0 {
		id := r.Items[idx].ID
		tl.OnAirItemID = &id
	}
	return tl
}
