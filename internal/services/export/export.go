// Package export provides rundown export functionality.
//
// An export is a self-contained JSON document holding a rundown, its
// program, and the stories and assets its items reference. Cross references
// use refIds so the document can be imported into another database.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
)

// FormatVersion is written to every export and checked on parse.
const FormatVersion = "1.0"

// Parse errors.
var (
	ErrInvalidDocument    = errors.New("invalid export document")
	ErrUnsupportedVersion = errors.New("unsupported export version")
)

// ExportedRundown represents a full rundown export.
type ExportedRundown struct {
	Version  string            `json:"version"`
	Metadata *ExportMetadata   `json:"metadata,omitempty"`
	Program  *ExportedProgram  `json:"program,omitempty"`
	Rundown  ExportRundownInfo `json:"rundown"`
	Items    []ExportedItem    `json:"items"`
	Stories  []ExportedStory   `json:"stories"`
	Assets   []ExportedAsset   `json:"assets"`
}

// ExportMetadata contains export metadata.
type ExportMetadata struct {
	ExportedAt   string  `json:"exportedAt"`
	OnAirVersion string  `json:"onAirVersion"`
	Description  *string `json:"description,omitempty"`
}

// ExportedProgram represents the owning program.
type ExportedProgram struct {
	RefID            string  `json:"refId"`
	Name             string  `json:"name"`
	DefaultStartTime string  `json:"defaultStartTime"`
	DefaultDuration  string  `json:"defaultDuration"`
	VMixIPAddress    *string `json:"vMixIpAddress,omitempty"`
	VMixPort         *int    `json:"vMixPort,omitempty"`
}

// ExportRundownInfo contains rundown-level fields.
type ExportRundownInfo struct {
	OriginalID string               `json:"originalId"`
	Title      string               `json:"title"`
	Date       string               `json:"date"`
	StartTime  string               `json:"startTime"`
	Status     models.RundownStatus `json:"status"`
}

// ExportedItem represents one rundown item. Story and asset links are refIds.
type ExportedItem struct {
	RefID             string                   `json:"refId"`
	Type              models.RundownItemType   `json:"type"`
	Slug              string                   `json:"slug"`
	Talent            *string                  `json:"talent,omitempty"`
	Camera            *string                  `json:"camera,omitempty"`
	EstimatedDuration string                   `json:"estimatedDuration"`
	Status            models.RundownItemStatus `json:"status"`
	StoryRefID        *string                  `json:"storyRefId,omitempty"`
	AssetRefID        *string                  `json:"assetRefId,omitempty"`
}

// ExportedStory represents a referenced story.
type ExportedStory struct {
	RefID                   string             `json:"refId"`
	Title                   string             `json:"title"`
	Script                  string             `json:"script"`
	Status                  models.StoryStatus `json:"status"`
	EstimatedScriptDuration *string            `json:"estimatedScriptDuration,omitempty"`
}

// ExportedAsset represents a referenced library asset.
type ExportedAsset struct {
	RefID          string                `json:"refId"`
	Name           string                `json:"name"`
	Type           models.AssetType      `json:"type"`
	URL            string                `json:"url"`
	Tags           []string              `json:"tags,omitempty"`
	Resolution     *string               `json:"resolution,omitempty"`
	Duration       *string               `json:"duration,omitempty"`
	Codec          *string               `json:"codec,omitempty"`
	InPoint        *string               `json:"inPoint,omitempty"`
	OutPoint       *string               `json:"outPoint,omitempty"`
	GraphicsEvents []models.GraphicEvent `json:"graphicsEvents,omitempty"`
}

// ExportStats contains statistics about an export.
type ExportStats struct {
	ItemsCount   int `json:"itemsCount"`
	StoriesCount int `json:"storiesCount"`
	AssetsCount  int `json:"assetsCount"`
	MissingLinks int `json:"missingLinks"`
}

// Service handles rundown export operations.
type Service struct {
	rundownRepo *repositories.RundownRepository
	programRepo *repositories.ProgramRepository
	storyRepo   *repositories.StoryRepository
	assetRepo   *repositories.AssetRepository
	version     string
}

// NewService creates a new export service. version is recorded in the metadata.
func NewService(
	rundownRepo *repositories.RundownRepository,
	programRepo *repositories.ProgramRepository,
	storyRepo *repositories.StoryRepository,
	assetRepo *repositories.AssetRepository,
	version string,
) *Service {
	return &Service{
		rundownRepo: rundownRepo,
		programRepo: programRepo,
		storyRepo:   storyRepo,
		assetRepo:   assetRepo,
		version:     version,
	}
}

// ExportRundown exports a rundown with its program and referenced stories
// and assets. Links to records that no longer exist are dropped and counted
// in MissingLinks.
func (s *Service) ExportRundown(ctx context.Context, rundownID string) (*ExportedRundown, *ExportStats, error) {
	rd, err := s.rundownRepo.FindByID(ctx, rundownID)
	if err != nil {
		return nil, nil, err
	}
	if rd == nil {
		return nil, nil, fmt.Errorf("rundown %s: %w", rundownID, repositories.ErrNotFound)
	}

	exported := &ExportedRundown{
		Version: FormatVersion,
		Metadata: &ExportMetadata{
			ExportedAt:   time.Now().UTC().Format(time.RFC3339),
			OnAirVersion: s.version,
		},
		Rundown: ExportRundownInfo{
			OriginalID: rd.ID,
			Title:      rd.Title,
			Date:       rd.Date,
			StartTime:  rd.StartTime,
			Status:     rd.Status,
		},
		Items:   []ExportedItem{},
		Stories: []ExportedStory{},
		Assets:  []ExportedAsset{},
	}
	stats := &ExportStats{}

	if rd.ProgramID != "" {
		program, err := s.programRepo.FindByID(ctx, rd.ProgramID)
		if err != nil {
			return nil, nil, err
		}
		if program != nil {
			exported.Program = &ExportedProgram{
				RefID:            program.ID,
				Name:             program.Name,
				DefaultStartTime: program.DefaultStartTime,
				DefaultDuration:  program.DefaultDuration,
				VMixIPAddress:    program.VMixIPAddress,
				VMixPort:         program.VMixPort,
			}
		}
	}

	// Referenced records are exported once even when several items share them
	storyRefs := make(map[string]bool)
	assetRefs := make(map[string]bool)

	for _, item := range rd.Items {
		exportedItem := ExportedItem{
			RefID:             item.ID,
			Type:              item.Type,
			Slug:              item.Slug,
			Talent:            item.Talent,
			Camera:            item.Camera,
			EstimatedDuration: item.EstimatedDuration,
			Status:            item.Status,
		}

		if item.StoryID != nil && *item.StoryID != "" {
			ok, err := s.exportStory(ctx, exported, storyRefs, *item.StoryID)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				exportedItem.StoryRefID = item.StoryID
			} else {
				stats.MissingLinks++
			}
		}

		if item.LinkedAssetID != nil && *item.LinkedAssetID != "" {
			ok, err := s.exportAsset(ctx, exported, assetRefs, *item.LinkedAssetID)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				exportedItem.AssetRefID = item.LinkedAssetID
			} else {
				stats.MissingLinks++
			}
		}

		exported.Items = append(exported.Items, exportedItem)
	}

	stats.ItemsCount = len(exported.Items)
	stats.StoriesCount = len(exported.Stories)
	stats.AssetsCount = len(exported.Assets)
	return exported, stats, nil
}

func (s *Service) exportStory(ctx context.Context, exported *ExportedRundown, seen map[string]bool, id string) (bool, error) {
	if seen[id] {
		return true, nil
	}
	story, err := s.storyRepo.FindByID(ctx, id)
	if err != nil || story == nil {
		return false, err
	}
	seen[id] = true
	exported.Stories = append(exported.Stories, ExportedStory{
		RefID:                   story.ID,
		Title:                   story.Title,
		Script:                  story.Script,
		Status:                  story.Status,
		EstimatedScriptDuration: story.EstimatedScriptDuration,
	})
	return true, nil
}

func (s *Service) exportAsset(ctx context.Context, exported *ExportedRundown, seen map[string]bool, id string) (bool, error) {
	if seen[id] {
		return true, nil
	}
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil || asset == nil {
		return false, err
	}
	seen[id] = true
	exported.Assets = append(exported.Assets, ExportedAsset{
		RefID:          asset.ID,
		Name:           asset.Name,
		Type:           asset.Type,
		URL:            asset.URL,
		Tags:           asset.Tags,
		Resolution:     asset.Resolution,
		Duration:       asset.Duration,
		Codec:          asset.Codec,
		InPoint:        asset.InPoint,
		OutPoint:       asset.OutPoint,
		GraphicsEvents: asset.GraphicsEvents,
	})
	return true, nil
}

// ToJSON converts the exported rundown to indented JSON.
func (e *ExportedRundown) ToJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseExportedRundown parses JSON into an ExportedRundown.
func ParseExportedRundown(jsonContent string) (*ExportedRundown, error) {
	var exported ExportedRundown
	if err := json.Unmarshal([]byte(jsonContent), &exported); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if exported.Version != "" && exported.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, exported.Version)
	}
	return &exported, nil
}

// GetProgramName returns the program name from the exported data.
func (e *ExportedRundown) GetProgramName() string {
	if e.Program != nil {
		return e.Program.Name
	}
	return ""
}
