// Package translate converts a rundown into a playout queue.
package translate

import (
	"context"
	"fmt"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database/models"
)

// MissingPrefix is prepended to the slug of a VT whose asset cannot be found.
const MissingPrefix = "MISSING: "

// AssetLookup fetches assets in bulk, keyed by ID. Unknown IDs are absent from the map.
type AssetLookup interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Asset, error)
}

// ProgramLookup resolves the program that owns a rundown.
type ProgramLookup interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

// Result is a translated rundown ready to load into the sequencer.
type Result struct {
	Name   string               `json:"name"`
	Items  []models.PlayoutItem `json:"items"`
	Target config.DeviceTarget  `json:"target"`
}

// Translator maps rundown items to playout items.
type Translator struct {
	Assets   AssetLookup
	Programs ProgramLookup
	Default  config.DeviceTarget
}

// New creates a Translator with an explicit default device target.
func New(assets AssetLookup, programs ProgramLookup, def config.DeviceTarget) *Translator {
	return &Translator{Assets: assets, Programs: programs, Default: def}
}

// Translate builds the playout queue for r. Only VT and COMMERCIAL items
// produce output; unresolved assets become ERROR placeholders rather than
// failures. Only lookup I/O can fail.
func (t *Translator) Translate(ctx context.Context, r *models.Rundown) (*Result, error) {
	assets, err := t.Assets.FindByIDs(ctx, linkedAssetIDs(r.Items))
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	var program *models.Program
	if t.Programs != nil && r.ProgramID != "" {
		program, err = t.Programs.FindByID(ctx, r.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("failed to load program: %w", err)
		}
	}

	return &Result{
		Name:   r.Title,
		Items:  Items(r.Items, assets),
		Target: ResolveTarget(program, t.Default),
	}, nil
}

// Items applies the per-item rules in rundown order.
func Items(items []models.RundownItem, assets map[string]*models.Asset) []models.PlayoutItem {
	out := make([]models.PlayoutItem, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case models.ItemTypeVT:
			if item.LinkedAssetID == nil || *item.LinkedAssetID == "" {
				continue
			}
			if asset, ok := assets[*item.LinkedAssetID]; ok && asset != nil {
				out = append(out, fromAsset(item, asset))
			} else {
				out = append(out, missing(item))
			}
		case models.ItemTypeCommercial:
			out = append(out, models.PlayoutItem{
				ID:       "playout_" + item.ID,
				Name:     item.Slug,
				Type:     models.SourceGroupHeader,
				Duration: item.EstimatedDuration,
				Status:   models.SourceOK,
			})
		}
	}
	return out
}

func fromAsset(item models.RundownItem, asset *models.Asset) models.PlayoutItem {
	duration := item.EstimatedDuration
	if asset.Duration != nil && *asset.Duration != "" {
		duration = *asset.Duration
	}
	var url *string
	if asset.URL != "" {
		u := asset.URL
		url = &u
	}
	return models.PlayoutItem{
		ID:             "playout_" + item.ID,
		Name:           asset.Name,
		Type:           asset.Type.SourceKind(),
		Duration:       duration,
		Status:         models.SourceOK,
		URL:            url,
		InPoint:        asset.InPoint,
		OutPoint:       asset.OutPoint,
		GraphicsEvents: asset.GraphicsEvents,
	}
}

func missing(item models.RundownItem) models.PlayoutItem {
	return models.PlayoutItem{
		ID:       "playout_missing_" + item.ID,
		Name:     MissingPrefix + item.Slug,
		Type:     models.SourceVideo,
		Duration: item.EstimatedDuration,
		Status:   models.SourceError,
	}
}

// ResolveTarget picks the program's switcher override, field by field,
// falling back to def. A nil program yields def unchanged.
func ResolveTarget(program *models.Program, def config.DeviceTarget) config.DeviceTarget {
	target := def
	if program == nil {
		return target
	}
	if program.Name != "" {
		target.Name = program.Name
	}
	if program.VMixIPAddress != nil && *program.VMixIPAddress != "" {
		target.Host = *program.VMixIPAddress
	}
	if program.VMixPort != nil && *program.VMixPort > 0 {
		target.Port = *program.VMixPort
	}
	return target
}

func linkedAssetIDs(items []models.RundownItem) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, item := range items {
		if item.Type != models.ItemTypeVT || item.LinkedAssetID == nil || *item.LinkedAssetID == "" {
			continue
		}
		if _, ok := seen[*item.LinkedAssetID]; ok {
			continue
		}
		seen[*item.LinkedAssetID] = struct{}{}
		ids = append(ids, *item.LinkedAssetID)
	}
	return ids
}
