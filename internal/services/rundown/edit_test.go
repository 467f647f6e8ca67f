package rundown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
)

func statusPtr(s models.RundownItemStatus) *models.RundownItemStatus { return &s }
func strPtr(s string) *string                                      { return &s }

func TestNewItem_DefaultDurations(t *testing.T) {
	story := NewItem(models.ItemTypeStory, "LEAD")
	assert.Equal(t, DefaultStoryDuration, story.EstimatedDuration)
	assert.Equal(t, models.ItemStatusDraft, story.Status)
	assert.NotEmpty(t, story.ID)

	vt := NewItem(models.ItemTypeVT, "PKG")
	assert.Equal(t, DefaultItemDuration, vt.EstimatedDuration)
	assert.NotEqual(t, story.ID, vt.ID)
}

func TestAppendItem_UpdatesTotal(t *testing.T) {
	r := &models.Rundown{}
	require.NoError(t, AppendItem(r, NewItem(models.ItemTypeStory, "A")))
	require.NoError(t, AppendItem(r, NewItem(models.ItemTypeLive, "B")))

	assert.Len(t, r.Items, 2)
	assert.Equal(t, "00:01:30", r.EstimatedTotalDuration)
}

func TestInsertItem_ClampsIndex(t *testing.T) {
	r := &models.Rundown{Items: []models.RundownItem{item("a", "00:00:10", models.ItemStatusReady)}}

	require.NoError(t, InsertItem(r, -5, item("first", "00:00:10", models.ItemStatusReady)))
	require.NoError(t, InsertItem(r, 99, item("last", "00:00:10", models.ItemStatusReady)))
	require.NoError(t, InsertItem(r, 1, item("mid", "00:00:10", models.ItemStatusReady)))

	ids := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"first", "mid", "a", "last"}, ids)
	assert.Equal(t, "00:00:40", r.EstimatedTotalDuration)
}

func TestInsertItem_RejectsInvalidType(t *testing.T) {
	r := &models.Rundown{}
	err := InsertItem(r, 0, models.RundownItem{Type: "BREAK", Slug: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidItemType)
	assert.Empty(t, r.Items)
}

func TestInsertItem_NormalizesDuration(t *testing.T) {
	r := &models.Rundown{}
	require.NoError(t, InsertItem(r, 0, models.RundownItem{Type: models.ItemTypeLive, EstimatedDuration: "2:05"}))
	assert.Equal(t, "00:02:05", r.Items[0].EstimatedDuration)
	assert.Equal(t, models.ItemStatusDraft, r.Items[0].Status)
}

func TestApplyPatch(t *testing.T) {
	r := &models.Rundown{Items: []models.RundownItem{item("a", "00:01:00", models.ItemStatusDraft)}}

	err := ApplyPatch(r, "a", ItemPatch{
		Slug:              strPtr("WEATHER"),
		Talent:            strPtr("Anna"),
		EstimatedDuration: strPtr("00:02:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, "WEATHER", r.Items[0].Slug)
	assert.Equal(t, "Anna", *r.Items[0].Talent)
	assert.Equal(t, models.ItemStatusDraft, r.Items[0].Status)
	assert.Equal(t, "00:02:00", r.EstimatedTotalDuration)
}

func TestApplyPatch_OnAirDemotesPrevious(t *testing.T) {
	r := &models.Rundown{Items: []models.RundownItem{
		item("a", "00:01:00", models.ItemStatusOnAir),
		item("b", "00:01:00", models.ItemStatusReady),
	}}

	require.NoError(t, ApplyPatch(r, "b", ItemPatch{Status: statusPtr(models.ItemStatusOnAir)}))

	assert.Equal(t, models.ItemStatusDone, r.Items[0].Status)
	assert.Equal(t, models.ItemStatusOnAir, r.Items[1].Status)
	assert.Equal(t, 1, OnAirIndex(r.Items))
}

func TestApplyPatch_InvalidStatusLeavesItem(t *testing.T) {
	r := &models.Rundown{Items: []models.RundownItem{item("a", "00:01:00", models.ItemStatusReady)}}

	err := ApplyPatch(r, "a", ItemPatch{Slug: strPtr("X"), Status: statusPtr("LIVE")})

	assert.ErrorIs(t, err, models.ErrInvalidItemStatus)
	assert.Equal(t, "a", r.Items[0].Slug)
}

func TestApplyPatch_UnknownItem(t *testing.T) {
	err := ApplyPatch(&models.Rundown{}, "missing", ItemPatch{})
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	r := &models.Rundown{Items: []models.RundownItem{
		item("a", "00:01:00", models.ItemStatusReady),
		item("b", "00:00:30", models.ItemStatusReady),
	}}
	r.Recalculate()

	require.NoError(t, RemoveItem(r, "a"))
	require.Len(t, r.Items, 1)
	assert.Equal(t, "b", r.Items[0].ID)
	assert.Equal(t, "00:00:30", r.EstimatedTotalDuration)

	assert.ErrorIs(t, RemoveItem(r, "a"), ErrItemNotFound)
}

func TestLinkAsset(t *testing.T) {
	vt := item("vt", "00:00:30", models.ItemStatusReady)
	vt.Type = models.ItemTypeVT
	r := &models.Rundown{Items: []models.RundownItem{vt}}

	asset := &models.Asset{ID: "asset-1", Name: "Flood package", Duration: strPtr("00:01:45")}
	require.NoError(t, LinkAsset(r, "vt", asset))

	got := r.Items[0]
	assert.Equal(t, "asset-1", *got.LinkedAssetID)
	assert.Equal(t, "Flood package", *got.LinkedAssetName)
	assert.Equal(t, "00:01:45", got.EstimatedDuration)
	assert.Equal(t, "00:01:45", r.EstimatedTotalDuration)

	require.NoError(t, UnlinkAsset(r, "vt"))
	assert.Nil(t, r.Items[0].LinkedAssetID)
	assert.Nil(t, r.Items[0].LinkedAssetName)
}

func TestLinkAsset_OnlyVT(t *testing.T) {
	r := &models.Rundown{Items: []models.RundownItem{item("s", "00:01:00", models.ItemStatusReady)}}
	err := LinkAsset(r, "s", &models.Asset{ID: "x"})
	assert.ErrorIs(t, err, ErrNotLinkable)
}
