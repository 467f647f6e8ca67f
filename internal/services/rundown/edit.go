package rundown

import (
	"errors"
	"fmt"

	"github.com/lucsky/cuid"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
	"github.com/bbernstein/onair-go/internal/timecode"
)

// Lookup errors. Each wraps repositories.ErrNotFound.
var (
	ErrRundownNotFound = fmt.Errorf("rundown %w", repositories.ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("rundown item %w", repositories.ErrNotFound)
	ErrProgramNotFound = fmt.Errorf("program %w", repositories.ErrNotFound)
	ErrAssetNotFound   = fmt.Errorf("asset %w", repositories.ErrNotFound)
)

// ErrNotLinkable is returned when an asset is linked to a non-VT item.
var ErrNotLinkable = errors.New("only VT items can link an asset")

// Default estimated durations for new items.
const (
	DefaultStoryDuration = "00:01:00"
	DefaultItemDuration  = "00:00:30"
)

// ItemPatch is a partial update of a rundown item. Nil fields are left unchanged.
type ItemPatch struct {
	Type              *models.RundownItemType   `json:"type,omitempty"`
	Slug              *string                   `json:"slug,omitempty"`
	Talent            *string                   `json:"talent,omitempty"`
	Camera            *string                   `json:"camera,omitempty"`
	EstimatedDuration *string                   `json:"estimatedDuration,omitempty"`
	ActualDuration    *string                   `json:"actualDuration,omitempty"`
	Status            *models.RundownItemStatus `json:"status,omitempty"`
	StoryID           *string                   `json:"storyId,omitempty"`
	LinkedAssetID     *string                   `json:"linkedAssetId,omitempty"`
	LinkedAssetName   *string                   `json:"linkedAssetName,omitempty"`
}

// NewItem builds a DRAFT item with the default duration for its type.
func NewItem(itemType models.RundownItemType, slug string) models.RundownItem {
	duration := DefaultItemDuration
	if itemType == models.ItemTypeStory {
		duration = DefaultStoryDuration
	}
	return models.RundownItem{
		ID:                cuid.New(),
		Type:              itemType,
		Slug:              slug,
		EstimatedDuration: duration,
		Status:            models.ItemStatusDraft,
	}
}

// AppendItem adds item to the end of r.
func AppendItem(r *models.Rundown, item models.RundownItem) error {
	return InsertItem(r, len(r.Items), item)
}

// InsertItem places item at index, clamped to [0, len(items)].
func InsertItem(r *models.Rundown, index int, item models.RundownItem) error {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	if item.Status == "" {
		item.Status = models.ItemStatusDraft
	}
	item.EstimatedDuration = normalize(item.EstimatedDuration)
	if err := item.Validate(); err != nil {
		return err
	}

	if index < 0 {
		index = 0
	}
	if index > len(r.Items) {
		index = len(r.Items)
	}

	items := make([]models.RundownItem, 0, len(r.Items)+1)
	items = append(items, r.Items[:index]...)
	items = append(items, item)
	items = append(items, r.Items[index:]...)
	r.Items = items

	if item.Status == models.ItemStatusOnAir {
		demoteOthers(r, item.ID)
	}
	r.Recalculate()
	return nil
}

// ApplyPatch merges patch into the item with itemID.
// Putting an item ON_AIR moves any other ON_AIR item to DONE.
func ApplyPatch(r *models.Rundown, itemID string, patch ItemPatch) error {
	idx := indexOf(r.Items, itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	merged := r.Items[idx]
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Slug != nil {
		merged.Slug = *patch.Slug
	}
	if patch.Talent != nil {
		merged.Talent = patch.Talent
	}
	if patch.Camera != nil {
		merged.Camera = patch.Camera
	}
	if patch.EstimatedDuration != nil {
		merged.EstimatedDuration = normalize(*patch.EstimatedDuration)
	}
	if patch.ActualDuration != nil {
		actual := normalize(*patch.ActualDuration)
		merged.ActualDuration = &actual
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	if patch.StoryID != nil {
		merged.StoryID = patch.StoryID
	}
	if patch.LinkedAssetID != nil {
		merged.LinkedAssetID = patch.LinkedAssetID
	}
	if patch.LinkedAssetName != nil {
		merged.LinkedAssetName = patch.LinkedAssetName
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	r.Items[idx] = merged
	if merged.Status == models.ItemStatusOnAir {
		demoteOthers(r, merged.ID)
	}
	r.Recalculate()
	return nil
}

// RemoveItem deletes the item with itemID.
func RemoveItem(r *models.Rundown, itemID string) error {
	idx := indexOf(r.Items, itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	r.Items = append(r.Items[:idx:idx], r.Items[idx+1:]...)
	r.Recalculate()
	return nil
}

// LinkAsset attaches asset to a VT item, adopting its name and duration.
func LinkAsset(r *models.Rundown, itemID string, asset *models.Asset) error {
	idx := indexOf(r.Items, itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	item := &r.Items[idx]
	if item.Type != models.ItemTypeVT {
		return ErrNotLinkable
	}

	id, name := asset.ID, asset.Name
	item.LinkedAssetID = &id
	item.LinkedAssetName = &name
	item.EstimatedDuration = timecode.Zero
	if asset.Duration != nil {
		item.EstimatedDuration = normalize(*asset.Duration)
	}
	r.Recalculate()
	return nil
}

// UnlinkAsset clears the asset reference of an item.
func UnlinkAsset(r *models.Rundown, itemID string) error {
	idx := indexOf(r.Items, itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	r.Items[idx].LinkedAssetID = nil
	r.Items[idx].LinkedAssetName = nil
	return nil
}

func demoteOthers(r *models.Rundown, keepID string) {
	for i := range r.Items {
		if r.Items[i].ID != keepID && r.Items[i].Status == models.ItemStatusOnAir {
			r.Items[i].Status = models.ItemStatusDone
		}
	}
}

func indexOf(items []models.RundownItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// normalize canonicalizes duration text; malformed input becomes 00:00:00.
func normalize(d string) string {
	return timecode.FormatDuration(timecode.ParseDuration(d))
}
