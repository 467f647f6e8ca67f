package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// StoryRepository handles story data access.
type StoryRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository.
func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// FindAll returns all stories.
func (r *StoryRepository) FindAll(ctx context.Context) ([]models.Story, error) {
	var stories []models.Story
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&stories)
	return stories, result.Error
}

// FindByID returns a story by ID, or nil if it does not exist.
func (r *StoryRepository) FindByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	result := r.db.WithContext(ctx).First(&story, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &story, nil
}

// Create creates a new story.
func (r *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	if story.ID == "" {
		story.ID = cuid.New()
	}
	if story.LinkedAssets == nil {
		story.LinkedAssets = []models.StoryAsset{}
	}
	return r.db.WithContext(ctx).Create(story).Error
}

// Update replaces an existing story.
func (r *StoryRepository) Update(ctx context.Context, story *models.Story) error {
	return replace(ctx, r.db, &models.Story{}, story.ID, story)
}

// Delete deletes a story and unlinks it from every rundown item.
func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Story{}, "id = ?", id).Error; err != nil {
			return err
		}
		return unlinkStory(ctx, tx, id)
	})
}
