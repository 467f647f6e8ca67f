package rundown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/onair-go/internal/database/models"
)

func item(id, duration string, status models.RundownItemStatus) models.RundownItem {
	return models.RundownItem{
		ID:                id,
		Type:              models.ItemTypeStory,
		Slug:              id,
		EstimatedDuration: duration,
		Status:            status,
	}
}

func TestBuildTimeline_Contiguous(t *testing.T) {
	items := []models.RundownItem{
		item("a", "00:01:30", models.ItemStatusReady),
		item("b", "00:02:45", models.ItemStatusReady),
	}

	entries := BuildTimeline("19:00:00", items)

	require.Len(t, entries, 2)
	assert.Equal(t, TimelineEntry{ItemID: "a", StartTime: "19:00:00", EndTime: "19:01:30"}, entries[0])
	assert.Equal(t, TimelineEntry{ItemID: "b", StartTime: "19:01:30", EndTime: "19:04:15"}, entries[1])
}

func TestBuildTimeline_Empty(t *testing.T) {
	assert.Empty(t, BuildTimeline("19:00:00", nil))
}

func TestBuildTimeline_WrapsPastMidnight(t *testing.T) {
	entries := BuildTimeline("23:59:00", []models.RundownItem{
		item("a", "00:01:30", models.ItemStatusReady),
	})
	require.Len(t, entries, 1)
	assert.Equal(t, "23:59:00", entries[0].StartTime)
	assert.Equal(t, "00:00:30", entries[0].EndTime)
}

func TestBuildTimeline_MalformedDurationCountsAsZero(t *testing.T) {
	entries := BuildTimeline("10:00:00", []models.RundownItem{
		item("a", "soon", models.ItemStatusReady),
		item("b", "00:00:10", models.ItemStatusReady),
	})
	assert.Equal(t, "10:00:00", entries[0].EndTime)
	assert.Equal(t, "10:00:10", entries[1].EndTime)
}

func TestRemainingSeconds(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.RundownItemStatus
		want     int
	}{
		{"nothing on air", []models.RundownItemStatus{models.ItemStatusReady, models.ItemStatusReady, models.ItemStatusReady}, 180},
		{"first on air", []models.RundownItemStatus{models.ItemStatusOnAir, models.ItemStatusReady, models.ItemStatusReady}, 150},
		{"middle on air", []models.RundownItemStatus{models.ItemStatusDone, models.ItemStatusOnAir, models.ItemStatusReady}, 90},
		{"last on air", []models.RundownItemStatus{models.ItemStatusDone, models.ItemStatusDone, models.ItemStatusOnAir}, 0},
		{"lowest index wins", []models.RundownItemStatus{models.ItemStatusDone, models.ItemStatusOnAir, models.ItemStatusOnAir}, 90},
	}
	durations := []string{"00:00:30", "00:01:00", "00:01:30"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]models.RundownItem, len(durations))
			for i := range durations {
				items[i] = item(string(rune('a'+i)), durations[i], tt.statuses[i])
			}
			assert.Equal(t, tt.want, RemainingSeconds(items))
		})
	}
}

func TestComputeTimeline(t *testing.T) {
	r := &models.Rundown{
		ID:        "r1",
		StartTime: "19:00:00",
		Items: []models.RundownItem{
			item("a", "00:01:30", models.ItemStatusDone),
			item("b", "00:02:45", models.ItemStatusOnAir),
			item("c", "00:00:45", models.ItemStatusReady),
		},
	}

	tl := ComputeTimeline(r)

	assert.Equal(t, "r1", tl.RundownID)
	assert.Equal(t, "19:00:00", tl.StartTime)
	assert.Equal(t, "00:05:00", tl.TotalDuration)
	assert.Equal(t, "19:05:00", tl.EndTime)
	assert.Equal(t, "00:00:45", tl.Remaining)
	require.NotNil(t, tl.OnAirItemID)
	assert.Equal(t, "b", *tl.OnAirItemID)
	assert.Len(t, tl.Entries, 3)
}

func TestComputeTimeline_NoOnAir(t *testing.T) {
	tl := ComputeTimeline(&models.Rundown{StartTime: "06:00:00"})
	assert.Nil(t, tl.OnAirItemID)
	assert.Equal(t, "00:00:00", tl.TotalDuration)
	assert.Equal(t, "06:00:00", tl.EndTime)
	assert.Empty(t, tl.Entries)
}
