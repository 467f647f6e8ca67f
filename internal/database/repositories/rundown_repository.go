package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// RundownRepository handles rundown data access.
type RundownRepository struct {
	db *gorm.DB
}

// NewRundownRepository creates a new RundownRepository.
func NewRundownRepository(db *gorm.DB) *RundownRepository {
	return &RundownRepository{db: db}
}

// FindAll returns all rundowns, newest broadcast date first.
func (r *RundownRepository) FindAll(ctx context.Context) ([]models.Rundown, error) {
	var rundowns []models.Rundown
	result := r.db.WithContext(ctx).Order("date DESC").Order("created_at DESC").Find(&rundowns)
	return rundowns, result.Error
}

// FindByProgramID returns the rundowns of one program.
func (r *RundownRepository) FindByProgramID(ctx context.Context, programID string) ([]models.Rundown, error) {
	var rundowns []models.Rundown
	result := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("date DESC").
		Find(&rundowns)
	return rundowns, result.Error
}

// FindByID returns a rundown by ID, or nil if it does not exist.
func (r *RundownRepository) FindByID(ctx context.Context, id string) (*models.Rundown, error) {
	var rundown models.Rundown
	result := r.db.WithContext(ctx).First(&rundown, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &rundown, nil
}

// Create creates a new rundown. Item IDs are assigned when absent.
func (r *RundownRepository) Create(ctx context.Context, rundown *models.Rundown) error {
	if rundown.ID == "" {
		rundown.ID = cuid.New()
	}
	assignItemIDs(rundown.Items)
	return r.db.WithContext(ctx).Create(rundown).Error
}

// Update replaces an existing rundown, items included.
func (r *RundownRepository) Update(ctx context.Context, rundown *models.Rundown) error {
	assignItemIDs(rundown.Items)
	return replace(ctx, r.db, &models.Rundown{}, rundown.ID, rundown)
}

// Delete deletes a rundown by ID.
func (r *RundownRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Rundown{}, "id = ?", id).Error
}

// UnlinkStory clears storyID from every rundown item that references it.
func (r *RundownRepository) UnlinkStory(ctx context.Context, storyID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return unlinkStory(ctx, tx, storyID)
	})
}

func unlinkStory(ctx context.Context, tx *gorm.DB, storyID string) error {
	var rundowns []models.Rundown
	if err := tx.WithContext(ctx).Find(&rundowns).Error; err != nil {
		return err
	}
	for idx := range rundowns {
		changed := false
		for i := range rundowns[idx].Items {
			item := &rundowns[idx].Items[i]
			if item.StoryID != nil && *item.StoryID == storyID {
				item.StoryID = nil
				changed = true
			}
		}
		if changed {
			if err := tx.WithContext(ctx).Omit("created_at").Save(&rundowns[idx]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func assignItemIDs(items []models.RundownItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = cuid.New()
		}
	}
}
