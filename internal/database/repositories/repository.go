// Package repositories provides gorm-backed data access for each entity.
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a replace targets an identity that does not exist.
var ErrNotFound = errors.New("record not found")

// exists reports whether a row with the given id exists for model.
func exists(ctx context.Context, db *gorm.DB, model interface{}, id string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// replace overwrites a full record by identity, keeping its creation time.
func replace(ctx context.Context, db *gorm.DB, model interface{}, id string, value interface{}) error {
	if id == "" {
		return ErrNotFound
	}
	ok, err := exists(ctx, db, model, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return db.WithContext(ctx).Omit("created_at").Save(value).Error
}

// notFoundToNil maps gorm's not-found error to a nil result.
func notFoundToNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
