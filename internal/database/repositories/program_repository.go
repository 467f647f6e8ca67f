package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// ProgramRepository handles program data access.
type ProgramRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// FindAll returns all programs.
func (r *ProgramRepository) FindAll(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	result := r.db.WithContext(ctx).Order("name ASC").Find(&programs)
	return programs, result.Error
}

// FindByID returns a program by ID, or nil if it does not exist.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	result := r.db.WithContext(ctx).First(&program, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &program, nil
}

// FindByName returns the first program with the given name, or nil.
func (r *ProgramRepository) FindByName(ctx context.Context, name string) (*models.Program, error) {
	var program models.Program
	result := r.db.WithContext(ctx).Order("created_at ASC").First(&program, "name = ?", name)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &program, nil
}

// Create creates a new program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = cuid.New()
	}
	if program.DefaultStartTime == "" {
		program.DefaultStartTime = "12:00:00"
	}
	if program.DefaultDuration == "" {
		program.DefaultDuration = "00:28:00"
	}
	return r.db.WithContext(ctx).Create(program).Error
}

// Update replaces an existing program.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	return replace(ctx, r.db, &models.Program{}, program.ID, program)
}

// Delete deletes a program by ID.
func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Program{}, "id = ?", id).Error
}
