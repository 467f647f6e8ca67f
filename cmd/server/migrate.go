package main

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// backfillRundownTotals fills estimated_total_duration for rundowns written
// before the column was derived on save. Rows with unreadable items are skipped.
func backfillRundownTotals(db *gorm.DB) error {
	if db.Name() != "sqlite" {
		return nil
	}
	migrator := db.Migrator()
	if !migrator.HasTable("rundowns") || !migrator.HasColumn("rundowns", "estimated_total_duration") {
		return nil
	}

	type row struct {
		ID    string
		Items string
	}
	var rows []row
	err := db.Raw(`SELECT id, items FROM rundowns
		WHERE estimated_total_duration IS NULL OR estimated_total_duration = ''`).Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to scan rundowns: %w", err)
	}

	updated := 0
	for _, r := range rows {
		var items []models.RundownItem
		if r.Items != "" {
			if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
				logger.Warn().Err(err).Str("rundown", r.ID).Msg("skipping rundown with unreadable items")
				continue
			}
		}
		rd := models.Rundown{Items: items}
		rd.Recalculate()
		err := db.Exec("UPDATE rundowns SET estimated_total_duration = ? WHERE id = ?",
			rd.EstimatedTotalDuration, r.ID).Error
		if err != nil {
			return fmt.Errorf("failed to update rundown %s: %w", r.ID, err)
		}
		updated++
	}

	if updated > 0 {
		logger.Info().Int("count", updated).Msg("backfilled rundown totals")
	}
	return nil
}
