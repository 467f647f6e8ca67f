// Package models contains the database model definitions.
// Nested lists (rundown items, playlist items, graphics events) are stored
// as JSON columns so every record is replaced as a whole.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/timecode"
	"github.com/bbernstein/onair-go/pkg/vmix"
)

// Program represents a recurring news program.
// Table: programs
type Program struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	Name             string    `gorm:"column:name" json:"name"`
	DefaultStartTime string    `gorm:"column:default_start_time" json:"defaultStartTime"`
	DefaultDuration  string    `gorm:"column:default_duration" json:"defaultDuration"`
	VMixIPAddress    *string   `gorm:"column:vmix_ip_address" json:"vMixIpAddress,omitempty"` // Optional override
	VMixPort         *int      `gorm:"column:vmix_port" json:"vMixPort,omitempty"`            // Optional override
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Program) TableName() string { return "programs" }

// RundownItem is one segment of a rundown. It has no table of its own.
type RundownItem struct {
	ID                string            `json:"id"`
	Type              RundownItemType   `json:"type"`
	Slug              string            `json:"slug"`
	Talent            *string           `json:"talent,omitempty"`
	Camera            *string           `json:"camera,omitempty"`
	EstimatedDuration string            `json:"estimatedDuration"`
	ActualDuration    *string           `json:"actualDuration,omitempty"`
	Status            RundownItemStatus `json:"status"`
	StoryID           *string           `json:"storyId,omitempty"`
	LinkedAssetID     *string           `json:"linkedAssetId,omitempty"`
	LinkedAssetName   *string           `json:"linkedAssetName,omitempty"`
}

// Validate checks the closed variant fields of the item.
func (i *RundownItem) Validate() error {
	if !i.Type.Valid() {
		return invalid(ErrInvalidItemType, string(i.Type))
	}
	if !i.Status.Valid() {
		return invalid(ErrInvalidItemStatus, string(i.Status))
	}
	return nil
}

// Rundown represents the ordered show plan for one broadcast.
// Table: rundowns
type Rundown struct {
	ID                     string        `gorm:"column:id;primaryKey" json:"id"`
	ProgramID              string        `gorm:"column:program_id;index" json:"programId"`
	Date                   string        `gorm:"column:date" json:"date"` // YYYY-MM-DD
	Title                  string        `gorm:"column:title" json:"title"`
	Items                  []RundownItem `gorm:"column:items;serializer:json" json:"items"`
	StartTime              string        `gorm:"column:start_time" json:"startTime"`
	EstimatedTotalDuration string        `gorm:"column:estimated_total_duration" json:"estimatedTotalDuration"` // Derived from Items
	Status                 RundownStatus `gorm:"column:status;default:DRAFT" json:"status"`
	CreatedAt              time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt              time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Rundown) TableName() string { return "rundowns" }

// Recalculate derives EstimatedTotalDuration from the item list.
func (r *Rundown) Recalculate() {
	total := 0
	for _, item := range r.Items {
		total += timecode.ParseDuration(item.EstimatedDuration)
	}
	r.EstimatedTotalDuration = timecode.FormatDuration(total)
}

// Validate checks the rundown and each of its items.
func (r *Rundown) Validate() error {
	if r.Status == "" {
		r.Status = RundownStatusDraft
	}
	if !r.Status.Valid() {
		return invalid(ErrInvalidRundownStatus, string(r.Status))
	}
	for idx := range r.Items {
		if err := r.Items[idx].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
	}
	return nil
}

// BeforeSave keeps the derived total in step with the items.
func (r *Rundown) BeforeSave(tx *gorm.DB) error {
	if r.Items == nil {
		r.Items = []RundownItem{}
	}
	r.Recalculate()
	return r.Validate()
}

// StoryAsset is a lightweight link from a story to a library asset.
type StoryAsset struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type AssetType `json:"type"`
}

// Story represents the script behind a rundown segment.
// Table: stories
type Story struct {
	ID                      string       `gorm:"column:id;primaryKey" json:"id"`
	Title                   string       `gorm:"column:title" json:"title"`
	Script                  string       `gorm:"column:script" json:"script"` // HTML from the editor
	Status                  StoryStatus  `gorm:"column:status;default:DRAFT" json:"status"`
	EstimatedScriptDuration *string      `gorm:"column:estimated_script_duration" json:"estimatedScriptDuration,omitempty"`
	LinkedAssets            []StoryAsset `gorm:"column:linked_assets;serializer:json" json:"linkedAssets"`
	CreatedAt               time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt               time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Story) TableName() string { return "stories" }

// BeforeSave validates the story status.
func (s *Story) BeforeSave(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = StoryStatusDraft
	}
	if !s.Status.Valid() {
		return invalid(ErrInvalidStoryStatus, string(s.Status))
	}
	return nil
}

// TextField sets one text field on a title input.
type TextField struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// GraphicEvent is a timed overlay shown while an item is on air.
type GraphicEvent struct {
	ID             string      `json:"id"`
	StartTime      int         `json:"startTime"` // seconds from item start
	Duration       int         `json:"duration"`  // seconds, 0 keeps it on until the item ends
	Input          string      `json:"vMixInput"`
	OverlayChannel int         `json:"vMixOverlayChannel"`
	TextFields     []TextField `json:"textFields,omitempty"`
}

// Validate checks the overlay channel range.
func (e *GraphicEvent) Validate() error {
	if !vmix.ValidOverlayChannel(e.OverlayChannel) {
		return fmt.Errorf("%w: %d", ErrInvalidOverlay, e.OverlayChannel)
	}
	return nil
}

// Asset represents a media library asset.
// Table: assets
type Asset struct {
	ID             string         `gorm:"column:id;primaryKey" json:"id"`
	Name           string         `gorm:"column:name" json:"name"`
	Type           AssetType      `gorm:"column:type" json:"type"`
	FileSize       string         `gorm:"column:file_size" json:"fileSize"`
	UploadDate     string         `gorm:"column:upload_date" json:"uploadDate"`
	Tags           []string       `gorm:"column:tags;serializer:json" json:"tags"`
	URL            string         `gorm:"column:url" json:"url"`
	Resolution     *string        `gorm:"column:resolution" json:"resolution,omitempty"`
	Duration       *string        `gorm:"column:duration" json:"duration,omitempty"`
	Codec          *string        `gorm:"column:codec" json:"codec,omitempty"`
	InPoint        *string        `gorm:"column:in_point" json:"inPoint,omitempty"`
	OutPoint       *string        `gorm:"column:out_point" json:"outPoint,omitempty"`
	GraphicsEvents []GraphicEvent `gorm:"column:graphics_events;serializer:json" json:"graphicsEvents,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Asset) TableName() string { return "assets" }

// BeforeSave validates the asset type and its graphics events.
func (a *Asset) BeforeSave(tx *gorm.DB) error {
	if !a.Type.Valid() {
		return invalid(ErrInvalidAssetType, string(a.Type))
	}
	for idx := range a.GraphicsEvents {
		if err := a.GraphicsEvents[idx].Validate(); err != nil {
			return fmt.Errorf("graphics event %d: %w", idx, err)
		}
	}
	return nil
}

// PlayoutItem is the device-facing unit of a playlist.
type PlayoutItem struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           SourceKind     `json:"type"`
	Duration       string         `json:"duration"`
	Status         SourceStatus   `json:"status"`
	URL            *string        `json:"url,omitempty"`
	IsCollapsed    bool           `json:"isCollapsed,omitempty"` // GROUP_HEADER only
	InPoint        *string        `json:"inPoint,omitempty"`
	OutPoint       *string        `json:"outPoint,omitempty"`
	GraphicsEvents []GraphicEvent `json:"graphicsEvents,omitempty"`
}

// IsGroupHeader reports whether the item is a block marker.
func (p *PlayoutItem) IsGroupHeader() bool {
	return p.Type == SourceGroupHeader
}

// Playable reports whether the item may become now-playing.
func (p *PlayoutItem) Playable() bool {
	return !p.IsGroupHeader() && p.Status != SourceError
}

// Seconds returns the parsed item duration.
func (p *PlayoutItem) Seconds() int {
	return timecode.ParseDuration(p.Duration)
}

// Validate checks the closed variant fields of the item and the overlay
// channel of each graphics event.
func (p *PlayoutItem) Validate() error {
	if !p.Type.Valid() {
		return invalid(ErrInvalidSourceKind, string(p.Type))
	}
	if !p.Status.Valid() {
		return invalid(ErrInvalidSourceStatus, string(p.Status))
	}
	for idx := range p.GraphicsEvents {
		if err := p.GraphicsEvents[idx].Validate(); err != nil {
			return fmt.Errorf("graphics event %d: %w", idx, err)
		}
	}
	return nil
}

// Playlist is a named, saved playout queue.
// Table: playlists
type Playlist struct {
	ID            string        `gorm:"column:id;primaryKey" json:"id"`
	Name          string        `gorm:"column:name" json:"name"`
	Items         []PlayoutItem `gorm:"column:items;serializer:json" json:"items"`
	TotalDuration string        `gorm:"column:total_duration" json:"totalDuration"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Playlist) TableName() string { return "playlists" }

// Recalculate derives TotalDuration from the item list.
func (p *Playlist) Recalculate() {
	total := 0
	for idx := range p.Items {
		total += p.Items[idx].Seconds()
	}
	p.TotalDuration = timecode.FormatDuration(total)
}

// BeforeSave validates items and refreshes the total duration.
func (p *Playlist) BeforeSave(tx *gorm.DB) error {
	if p.Items == nil {
		p.Items = []PlayoutItem{}
	}
	for idx := range p.Items {
		if err := p.Items[idx].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
	}
	p.Recalculate()
	return nil
}

// PlayoutLog is an as-run log entry written by the sequencer.
// Table: playout_logs
type PlayoutLog struct {
	ID        string           `gorm:"column:id;primaryKey" json:"id"`
	Timestamp time.Time        `gorm:"column:timestamp;index" json:"timestamp"`
	AssetName string           `gorm:"column:asset_name" json:"assetName"`
	EventType PlayoutEventType `gorm:"column:event_type" json:"eventType"`
	Duration  *string          `gorm:"column:duration" json:"duration,omitempty"`
	Details   string           `gorm:"column:details" json:"details"`
}

func (PlayoutLog) TableName() string { return "playout_logs" }

// Setting represents a system setting.
// Table: settings
type Setting struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Key       string    `gorm:"column:key;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:value" json:"value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Setting) TableName() string { return "settings" }

// All returns every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Program{},
		&Rundown{},
		&Story{},
		&Asset{},
		&Playlist{},
		&PlayoutLog{},
		&Setting{},
	}
}
