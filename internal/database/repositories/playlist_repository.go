package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// PlaylistRepository handles saved playlist data access.
type PlaylistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// FindAll returns all playlists, newest first.
func (r *PlaylistRepository) FindAll(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&playlists)
	return playlists, result.Error
}

// FindByID returns a playlist by ID, or nil if it does not exist.
func (r *PlaylistRepository) FindByID(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	result := r.db.WithContext(ctx).First(&playlist, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &playlist, nil
}

// Create creates a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(playlist).Error
}

// Update replaces an existing playlist.
func (r *PlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	return replace(ctx, r.db, &models.Playlist{}, playlist.ID, playlist)
}

// Save replaces the playlist when its ID exists and creates it otherwise.
func (r *PlaylistRepository) Save(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID != "" {
		ok, err := exists(ctx, r.db, &models.Playlist{}, playlist.ID)
		if err != nil {
			return err
		}
		if ok {
			return r.Update(ctx, playlist)
		}
	}
	return r.Create(ctx, playlist)
}

// Delete deletes a playlist by ID.
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Playlist{}, "id = ?", id).Error
}
