package repositories

import (
	"context"
	"time"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// PlayoutLogRepository stores the as-run log.
type PlayoutLogRepository struct {
	db *gorm.DB
}

// NewPlayoutLogRepository creates a new PlayoutLogRepository.
func NewPlayoutLogRepository(db *gorm.DB) *PlayoutLogRepository {
	return &PlayoutLogRepository{db: db}
}

// Create appends a log entry.
func (r *PlayoutLogRepository) Create(ctx context.Context, entry *models.PlayoutLog) error {
	if entry.ID == "" {
		entry.ID = cuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindRecent returns up to limit entries, newest first.
func (r *PlayoutLogRepository) FindRecent(ctx context.Context, limit int) ([]models.PlayoutLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.PlayoutLog
	result := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries)
	return entries, result.Error
}
