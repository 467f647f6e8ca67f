// Package testutil provides shared test utilities for service and API tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
)

// TestDB holds the test database and repositories.
type TestDB struct {
	DB           *gorm.DB
	ProgramRepo  *repositories.ProgramRepository
	RundownRepo  *repositories.RundownRepository
	StoryRepo    *repositories.StoryRepository
	AssetRepo    *repositories.AssetRepository
	PlaylistRepo *repositories.PlaylistRepository
	LogRepo      *repositories.PlayoutLogRepository
	SettingRepo  *repositories.SettingRepository
}

// SetupTestDB creates an in-memory SQLite database for testing.
// It returns a TestDB with all repositories initialized and a cleanup function.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// Every pooled connection to :memory: would be a separate database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	testDB := &TestDB{
		DB:           db,
		ProgramRepo:  repositories.NewProgramRepository(db),
		RundownRepo:  repositories.NewRundownRepository(db),
		StoryRepo:    repositories.NewStoryRepository(db),
		AssetRepo:    repositories.NewAssetRepository(db),
		PlaylistRepo: repositories.NewPlaylistRepository(db),
		LogRepo:      repositories.NewPlayoutLogRepository(db),
		SettingRepo:  repositories.NewSettingRepository(db),
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}

	return testDB, cleanup
}

// CreateProgram stores a program with the given default start time.
func (tdb *TestDB) CreateProgram(t *testing.T, name, startTime string) *models.Program {
	t.Helper()
	program := &models.Program{Name: name, DefaultStartTime: startTime}
	if err := tdb.ProgramRepo.Create(context.Background(), program); err != nil {
		t.Fatalf("Failed to create program: %v", err)
	}
	return program
}

// CreateRundown stores a rundown for program with the given items.
func (tdb *TestDB) CreateRundown(t *testing.T, program *models.Program, items ...models.RundownItem) *models.Rundown {
	t.Helper()
	rundown := &models.Rundown{
		ProgramID: program.ID,
		Date:      "2024-01-15",
		Title:     program.Name,
		StartTime: program.DefaultStartTime,
		Items:     items,
	}
	if err := tdb.RundownRepo.Create(context.Background(), rundown); err != nil {
		t.Fatalf("Failed to create rundown: %v", err)
	}
	return rundown
}

// CreateAsset stores a video asset with the given duration.
func (tdb *TestDB) CreateAsset(t *testing.T, name, duration string) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		Name:     name,
		Type:     models.AssetVideo,
		URL:      "/media/" + name + ".mp4",
		Duration: &duration,
	}
	if err := tdb.AssetRepo.Create(context.Background(), asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	return asset
}
