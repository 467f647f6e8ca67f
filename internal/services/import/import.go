// Package importservice provides rundown import functionality.
package importservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucsky/cuid"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
	"github.com/bbernstein/onair-go/internal/services/export"
)

// ImportMode determines how to handle the import.
type ImportMode string

const (
	// ImportModeCreate creates a new rundown.
	ImportModeCreate ImportMode = "CREATE"
	// ImportModeMerge appends the imported items to an existing rundown.
	ImportModeMerge ImportMode = "MERGE"
)

// AssetConflictStrategy determines how to handle assets that already exist.
type AssetConflictStrategy string

const (
	// AssetConflictReuse links to an existing asset with the same name and type.
	AssetConflictReuse AssetConflictStrategy = "REUSE"
	// AssetConflictDuplicate always creates a new asset.
	AssetConflictDuplicate AssetConflictStrategy = "DUPLICATE"
)

// ErrInvalidOptions is returned when the options do not fit the mode.
var ErrInvalidOptions = errors.New("invalid import options")

// ImportStats contains statistics about an import.
type ImportStats struct {
	ProgramsCreated int `json:"programsCreated"`
	RundownsCreated int `json:"rundownsCreated"`
	ItemsCreated    int `json:"itemsCreated"`
	StoriesCreated  int `json:"storiesCreated"`
	AssetsCreated   int `json:"assetsCreated"`
	AssetsReused    int `json:"assetsReused"`
}

// ImportOptions configures the import behavior.
type ImportOptions struct {
	Mode                  ImportMode            `json:"mode"`
	TargetRundownID       *string               `json:"targetRundownId,omitempty"` // MERGE only
	ProgramID             *string               `json:"programId,omitempty"`       // CREATE only
	Title                 *string               `json:"title,omitempty"`
	Date                  *string               `json:"date,omitempty"`
	AssetConflictStrategy AssetConflictStrategy `json:"assetConflictStrategy,omitempty"`
}

// Service handles rundown import operations.
type Service struct {
	rundownRepo *repositories.RundownRepository
	programRepo *repositories.ProgramRepository
	storyRepo   *repositories.StoryRepository
	assetRepo   *repositories.AssetRepository
}

// NewService creates a new import service.
func NewService(
	rundownRepo *repositories.RundownRepository,
	programRepo *repositories.ProgramRepository,
	storyRepo *repositories.StoryRepository,
	assetRepo *repositories.AssetRepository,
) *Service {
	return &Service{
		rundownRepo: rundownRepo,
		programRepo: programRepo,
		storyRepo:   storyRepo,
		assetRepo:   assetRepo,
	}
}

// ImportRundown imports a rundown from JSON and returns the ID of the rundown
// that received the items. Items get fresh IDs and any ON_AIR or DONE status
// is reset to READY. Links to refIds absent from the document are dropped
// with a warning.
func (s *Service) ImportRundown(ctx context.Context, jsonContent string, options ImportOptions) (string, *ImportStats, []string, error) {
	exported, err := export.ParseExportedRundown(jsonContent)
	if err != nil {
		return "", nil, nil, err
	}
	if err := validate(exported); err != nil {
		return "", nil, nil, err
	}
	if options.Mode == "" {
		options.Mode = ImportModeCreate
	}
	if options.AssetConflictStrategy == "" {
		options.AssetConflictStrategy = AssetConflictReuse
	}

	stats := &ImportStats{}
	var warnings []string

	// Resolve the destination before creating anything
	var (
		target  *models.Rundown
		program *models.Program
	)
	switch options.Mode {
	case ImportModeCreate:
		program, err = s.resolveProgram(ctx, exported, options, stats)
		if err != nil {
			return "", nil, nil, err
		}
	case ImportModeMerge:
		if options.TargetRundownID == nil || *options.TargetRundownID == "" {
			return "", nil, nil, fmt.Errorf("%w: MERGE requires targetRundownId", ErrInvalidOptions)
		}
		target, err = s.rundownRepo.FindByID(ctx, *options.TargetRundownID)
		if err != nil {
			return "", nil, nil, err
		}
		if target == nil {
			return "", nil, nil, fmt.Errorf("rundown %s: %w", *options.TargetRundownID, repositories.ErrNotFound)
		}
	default:
		return "", nil, nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, options.Mode)
	}

	// Track ID mappings for references
	assetIDMap := make(map[string]*models.Asset) // refId -> stored asset
	storyIDMap := make(map[string]string)        // refId -> new ID

	for _, ea := range exported.Assets {
		if options.AssetConflictStrategy == AssetConflictReuse {
			existing, err := s.assetRepo.FindByNameAndType(ctx, ea.Name, ea.Type)
			if err != nil {
				return "", nil, nil, err
			}
			if existing != nil {
				assetIDMap[ea.RefID] = existing
				stats.AssetsReused++
				continue
			}
		}
		asset := &models.Asset{
			Name:           ea.Name,
			Type:           ea.Type,
			URL:            ea.URL,
			Tags:           ea.Tags,
			Resolution:     ea.Resolution,
			Duration:       ea.Duration,
			Codec:          ea.Codec,
			InPoint:        ea.InPoint,
			OutPoint:       ea.OutPoint,
			GraphicsEvents: ea.GraphicsEvents,
		}
		if err := s.assetRepo.Create(ctx, asset); err != nil {
			return "", nil, nil, err
		}
		assetIDMap[ea.RefID] = asset
		stats.AssetsCreated++
	}

	for _, es := range exported.Stories {
		story := &models.Story{
			Title:                   es.Title,
			Script:                  es.Script,
			Status:                  es.Status,
			EstimatedScriptDuration: es.EstimatedScriptDuration,
		}
		if err := s.storyRepo.Create(ctx, story); err != nil {
			return "", nil, nil, err
		}
		storyIDMap[es.RefID] = story.ID
		stats.StoriesCreated++
	}

	items := make([]models.RundownItem, 0, len(exported.Items))
	for _, ei := range exported.Items {
		item := models.RundownItem{
			ID:                cuid.New(),
			Type:              ei.Type,
			Slug:              ei.Slug,
			Talent:            ei.Talent,
			Camera:            ei.Camera,
			EstimatedDuration: ei.EstimatedDuration,
			Status:            ei.Status,
		}
		if item.Status == models.ItemStatusOnAir || item.Status == models.ItemStatusDone {
			item.Status = models.ItemStatusReady
		}

		if ei.StoryRefID != nil {
			if id, ok := storyIDMap[*ei.StoryRefID]; ok {
				item.StoryID = &id
			} else {
				warnings = append(warnings, "Item '"+ei.Slug+"' references unknown story '"+*ei.StoryRefID+"'")
			}
		}
		if ei.AssetRefID != nil {
			if asset, ok := assetIDMap[*ei.AssetRefID]; ok {
				id, name := asset.ID, asset.Name
				item.LinkedAssetID = &id
				item.LinkedAssetName = &name
			} else {
				warnings = append(warnings, "Item '"+ei.Slug+"' references unknown asset '"+*ei.AssetRefID+"'")
			}
		}

		items = append(items, item)
	}
	stats.ItemsCreated = len(items)

	if target != nil {
		target.Items = append(target.Items, items...)
		if err := s.rundownRepo.Update(ctx, target); err != nil {
			return "", nil, nil, err
		}
		return target.ID, stats, warnings, nil
	}

	rd := &models.Rundown{
		ProgramID: program.ID,
		Title:     stringOr(options.Title, exported.Rundown.Title),
		Date:      stringOr(options.Date, exported.Rundown.Date),
		StartTime: exported.Rundown.StartTime,
		Status:    models.RundownStatusDraft,
		Items:     items,
	}
	if rd.StartTime == "" {
		rd.StartTime = program.DefaultStartTime
	}
	if err := s.rundownRepo.Create(ctx, rd); err != nil {
		return "", nil, nil, err
	}
	stats.RundownsCreated++
	return rd.ID, stats, warnings, nil
}

// resolveProgram picks the explicit program, then one with the exported
// name, and creates the exported program as a last resort.
func (s *Service) resolveProgram(ctx context.Context, exported *export.ExportedRundown, options ImportOptions, stats *ImportStats) (*models.Program, error) {
	if options.ProgramID != nil && *options.ProgramID != "" {
		program, err := s.programRepo.FindByID(ctx, *options.ProgramID)
		if err != nil {
			return nil, err
		}
		if program == nil {
			return nil, fmt.Errorf("program %s: %w", *options.ProgramID, repositories.ErrNotFound)
		}
		return program, nil
	}

	name := exported.GetProgramName()
	if name == "" {
		name = exported.Rundown.Title
	}
	existing, err := s.programRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	program := &models.Program{Name: name}
	if ep := exported.Program; ep != nil {
		program.DefaultStartTime = ep.DefaultStartTime
		program.DefaultDuration = ep.DefaultDuration
		program.VMixIPAddress = ep.VMixIPAddress
		program.VMixPort = ep.VMixPort
	}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	stats.ProgramsCreated++
	return program, nil
}

// validate rejects documents that would fail part way through the import.
func validate(exported *export.ExportedRundown) error {
	for idx, ei := range exported.Items {
		item := models.RundownItem{Type: ei.Type, Status: ei.Status}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
	}
	for idx, ea := range exported.Assets {
		if !ea.Type.Valid() {
			return fmt.Errorf("asset %d: %w: %s", idx, models.ErrInvalidAssetType, ea.Type)
		}
		for gi := range ea.GraphicsEvents {
			if err := ea.GraphicsEvents[gi].Validate(); err != nil {
				return fmt.Errorf("asset %d: %w", idx, err)
			}
		}
	}
	for idx, es := range exported.Stories {
		if es.Status != "" && !es.Status.Valid() {
			return fmt.Errorf("story %d: %w: %s", idx, models.ErrInvalidStoryStatus, es.Status)
		}
	}
	return nil
}

func stringOr(v *string, fallback string) string {
	if v != nil && *v != "" {
		return *v
	}
	return fallback
}
