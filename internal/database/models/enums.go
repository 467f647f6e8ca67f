package models

import (
	"errors"
	"fmt"
)

// Validation errors returned by Validate methods.
var (
	ErrInvalidItemType      = errors.New("invalid rundown item type")
	ErrInvalidItemStatus    = errors.New("invalid rundown item status")
	ErrInvalidRundownStatus = errors.New("invalid rundown status")
	ErrInvalidStoryStatus   = errors.New("invalid story status")
	ErrInvalidSourceKind    = errors.New("invalid source kind")
	ErrInvalidSourceStatus  = errors.New("invalid source status")
	ErrInvalidAssetType     = errors.New("invalid asset type")
	ErrInvalidOverlay       = errors.New("invalid overlay channel")
)

// RundownItemType classifies a rundown segment.
type RundownItemType string

const (
	ItemTypeStory      RundownItemType = "STORY"
	ItemTypeLive       RundownItemType = "LIVE"
	ItemTypeVT         RundownItemType = "VT"
	ItemTypeGraphic    RundownItemType = "GRAPHIC"
	ItemTypeCommercial RundownItemType = "COMMERCIAL"
	ItemTypeOpener     RundownItemType = "OPENER"
	ItemTypeCloser     RundownItemType = "CLOSER"
)

// Valid reports whether t is a known item type.
func (t RundownItemType) Valid() bool {
	switch t {
	case ItemTypeStory, ItemTypeLive, ItemTypeVT, ItemTypeGraphic,
		ItemTypeCommercial, ItemTypeOpener, ItemTypeCloser:
		return true
	}
	return false
}

// RundownItemStatus tracks a segment through the broadcast.
type RundownItemStatus string

const (
	ItemStatusDraft RundownItemStatus = "DRAFT"
	ItemStatusReady RundownItemStatus = "READY"
	ItemStatusOnAir RundownItemStatus = "ON_AIR"
	ItemStatusDone  RundownItemStatus = "DONE"
	ItemStatusHold  RundownItemStatus = "HOLD"
)

// Valid reports whether s is a known item status.
func (s RundownItemStatus) Valid() bool {
	switch s {
	case ItemStatusDraft, ItemStatusReady, ItemStatusOnAir, ItemStatusDone, ItemStatusHold:
		return true
	}
	return false
}

// RundownStatus is the lifecycle of a whole rundown.
type RundownStatus string

const (
	RundownStatusDraft    RundownStatus = "DRAFT"
	RundownStatusReady    RundownStatus = "READY"
	RundownStatusOnAir    RundownStatus = "ON_AIR"
	RundownStatusArchived RundownStatus = "ARCHIVED"
)

// Valid reports whether s is a known rundown status.
func (s RundownStatus) Valid() bool {
	switch s {
	case RundownStatusDraft, RundownStatusReady, RundownStatusOnAir, RundownStatusArchived:
		return true
	}
	return false
}

// StoryStatus is the editorial state of a story script.
type StoryStatus string

const (
	StoryStatusDraft    StoryStatus = "DRAFT"
	StoryStatusWriting  StoryStatus = "WRITING"
	StoryStatusApproved StoryStatus = "APPROVED"
	StoryStatusReady    StoryStatus = "READY"
)

// Valid reports whether s is a known story status.
func (s StoryStatus) Valid() bool {
	switch s {
	case StoryStatusDraft, StoryStatusWriting, StoryStatusApproved, StoryStatusReady:
		return true
	}
	return false
}

// SourceKind is the kind of source a playout item switches to.
type SourceKind string

const (
	SourceVideo       SourceKind = "VIDEO"
	SourceImage       SourceKind = "IMAGE"
	SourceAudio       SourceKind = "AUDIO"
	SourceNDI         SourceKind = "NDI"
	SourceSDI         SourceKind = "SDI"
	SourceSRT         SourceKind = "SRT"
	SourceRTMP        SourceKind = "RTMP"
	SourceGroupHeader SourceKind = "GROUP_HEADER"
)

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceVideo, SourceImage, SourceAudio, SourceNDI, SourceSDI,
		SourceSRT, SourceRTMP, SourceGroupHeader:
		return true
	}
	return false
}

// SourceStatus flags whether a playout item can be taken.
type SourceStatus string

const (
	SourceOK      SourceStatus = "OK"
	SourceWarning SourceStatus = "WARNING"
	SourceError   SourceStatus = "ERROR"
)

// Valid reports whether s is a known source status.
func (s SourceStatus) Valid() bool {
	switch s {
	case SourceOK, SourceWarning, SourceError:
		return true
	}
	return false
}

// AssetType is the media type of a library asset.
type AssetType string

const (
	AssetVideo AssetType = "VIDEO"
	AssetImage AssetType = "IMAGE"
	AssetAudio AssetType = "AUDIO"
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	switch t {
	case AssetVideo, AssetImage, AssetAudio:
		return true
	}
	return false
}

// SourceKind maps an asset type to the playout source kind.
func (t AssetType) SourceKind() SourceKind {
	switch t {
	case AssetImage:
		return SourceImage
	case AssetAudio:
		return SourceAudio
	default:
		return SourceVideo
	}
}

// PlayoutEventType classifies an as-run log entry.
type PlayoutEventType string

const (
	EventPlayStart PlayoutEventType = "PLAY_START"
	EventPlayEnd   PlayoutEventType = "PLAY_END"
	EventError     PlayoutEventType = "ERROR"
)

func invalid(err error, value string) error {
	return fmt.Errorf("%w: %q", err, value)
}
