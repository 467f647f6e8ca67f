package rundown

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/services/pubsub"
	"github.com/bbernstein/onair-go/internal/timecode"
)

// ErrInvalidStartTime is returned for a start time that is not HH:MM:SS.
var ErrInvalidStartTime = errors.New("invalid start time")

// Store persists rundowns.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Rundown, error)
	Create(ctx context.Context, rundown *models.Rundown) error
	Update(ctx context.Context, rundown *models.Rundown) error
}

// ProgramFinder resolves programs.
type ProgramFinder interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

// AssetFinder resolves library assets.
type AssetFinder interface {
	FindByID(ctx context.Context, id string) (*models.Asset, error)
}

// RundownPatch is a partial update of rundown header fields.
type RundownPatch struct {
	Title     *string               `json:"title,omitempty"`
	Date      *string               `json:"date,omitempty"`
	StartTime *string               `json:"startTime,omitempty"`
	Status    *models.RundownStatus `json:"status,omitempty"`
}

// Service applies item edits to stored rundowns.
type Service struct {
	rundowns Store
	programs ProgramFinder
	assets   AssetFinder
	pubsub   *pubsub.PubSub
	logger   zerolog.Logger
}

// NewService creates a rundown service. ps may be nil.
func NewService(rundowns Store, programs ProgramFinder, assets AssetFinder, ps *pubsub.PubSub, logger zerolog.Logger) *Service {
	return &Service{
		rundowns: rundowns,
		programs: programs,
		assets:   assets,
		pubsub:   ps,
		logger:   logger.With().Str("component", "rundown").Logger(),
	}
}

// Create opens a new empty rundown for a program, starting at its default start time.
func (s *Service) Create(ctx context.Context, programID, date, title string) (*models.Rundown, error) {
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	r := &models.Rundown{
		ProgramID: program.ID,
		Date:      date,
		Title:     title,
		StartTime: program.DefaultStartTime,
		Status:    models.RundownStatusDraft,
		Items:     []models.RundownItem{},
	}
	if err := s.rundowns.Create(ctx, r); err != nil {
		return nil, err
	}
	s.publish(r)
	return r, nil
}

// Get loads a rundown or returns ErrRundownNotFound.
func (s *Service) Get(ctx context.Context, id string) (*models.Rundown, error) {
	r, err := s.rundowns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRundownNotFound
	}
	return r, nil
}

// Update applies header changes to a rundown.
func (s *Service) Update(ctx context.Context, id string, patch RundownPatch) (*models.Rundown, error) {
	return s.mutate(ctx, id, func(r *models.Rundown) error {
		if patch.Title != nil {
			r.Title = *patch.Title
		}
		if patch.Date != nil {
			r.Date = *patch.Date
		}
		if patch.StartTime != nil {
			if !timecode.Valid(*patch.StartTime) {
				return fmt.Errorf("%w: %q", ErrInvalidStartTime, *patch.StartTime)
			}
			r.StartTime = *patch.StartTime
		}
		if patch.Status != nil {
			r.Status = *patch.Status
		}
		return nil
	})
}

// AddItem appends a new item of itemType with the default duration.
func (s *Service) AddItem(ctx context.Context, rundownID string, itemType models.RundownItemType, slug string) (*models.Rundown, error) {
	return s.mutate(ctx, rundownID, func(r *models.Rundown) error {
		return AppendItem(r, NewItem(itemType, slug))
	})
}

// InsertItem places item at index.
func (s *Service) InsertItem(ctx context.Context, rundownID string, index int, item models.RundownItem) (*models.Rundown, error) {
	return s.mutate(ctx, rundownID, func(r *models.Rundown) error {
		return InsertItem(r, index, item)
	})
}

// UpdateItem applies patch to one item.
func (s *Service) UpdateItem(ctx context.Context, rundownID, itemID string, patch ItemPatch) (*models.Rundown, error) {
	return s.mutate(ctx, rundownID, func(r *models.Rundown) error {
		return ApplyPatch(r, itemID, patch)
	})
}

// RemoveItem deletes one item.
func (s *Service) RemoveItem(ctx context.Context, rundownID, itemID string) (*models.Rundown, error) {
	return s.mutate(ctx, rundownID, func(r *models.Rundown) error {
		return RemoveItem(r, itemID)
	})
}

// LinkAsset attaches a library asset to a VT item.
func (s *Service) LinkAsset(ctx context.Context, rundownID, itemID, assetID string) (*models.Rundown, error) {
	asset, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}
	return s.mutate(ctx, rundownID, func(r *models.Rundown) error {
		return LinkAsset(r, itemID, asset)
	})
}

// UnlinkAsset clears the asset of one item.
func (s *Service) UnlinkAsset(ctx context.Context, rundownID, itemID string) (*models.Rundown, error) {
	return s.mutate(ctx, rundownID, func(r *models.Rundown) error {
		return UnlinkAsset(r, itemID)
	})
}

// Timeline computes the schedule of a stored rundown.
func (s *Service) Timeline(ctx context.Context, rundownID string) (*Timeline, error) {
	r, err := s.Get(ctx, rundownID)
	if err != nil {
		return nil, err
	}
	return ComputeTimeline(r), nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*models.Rundown) error) (*models.Rundown, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.rundowns.Update(ctx, r); err != nil {
		return nil, err
	}
	s.publish(r)
	return r, nil
}

func (s *Service) publish(r *models.Rundown) {
	s.logger.Debug().Str("rundown", r.ID).Int("items", len(r.Items)).Msg("rundown updated")
	if s.pubsub != nil {
		s.pubsub.Publish(pubsub.TopicRundownUpdated, r.ID, r)
	}
}
