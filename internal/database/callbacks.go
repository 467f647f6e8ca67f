package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/telemetry"
)

const startTimeKey = "onair:start_time"

// RegisterCallbacks records the latency of every create, query, update and
// delete on m, labelled by operation and table.
func RegisterCallbacks(db *gorm.DB, m *telemetry.Metrics) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("metrics:before_create", markStart); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:after_create", observe("create", m)); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("metrics:before_query", markStart); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:after_query", observe("query", m)); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:before_update", markStart); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:after_update", observe("update", m)); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", markStart); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("metrics:after_delete", observe("delete", m))
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func observe(op string, m *telemetry.Metrics) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		m.DBQuerySeconds.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			m.DBErrors.WithLabelValues(op, table).Inc()
		}
	}
}
