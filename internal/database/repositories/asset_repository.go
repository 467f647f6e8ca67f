package repositories

import (
	"context"
	"strings"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/database/models"
)

// AssetRepository handles media asset data access.
type AssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// FindAll returns all assets.
func (r *AssetRepository) FindAll(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	result := r.db.WithContext(ctx).Order("name ASC").Find(&assets)
	return assets, result.Error
}

// Search returns assets whose name contains query, case-insensitively.
// An empty query returns every asset.
func (r *AssetRepository) Search(ctx context.Context, query string) ([]models.Asset, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.FindAll(ctx)
	}
	var assets []models.Asset
	result := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("name ASC").
		Find(&assets)
	return assets, result.Error
}

// FindByID returns an asset by ID, or nil if it does not exist.
func (r *AssetRepository) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	result := r.db.WithContext(ctx).First(&asset, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &asset, nil
}

// FindByIDs returns the assets with the given IDs keyed by ID.
// Unknown IDs are simply absent from the map.
func (r *AssetRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Asset, error) {
	byID := make(map[string]*models.Asset, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var assets []models.Asset
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&assets).Error; err != nil {
		return nil, err
	}
	for i := range assets {
		byID[assets[i].ID] = &assets[i]
	}
	return byID, nil
}

// FindByNameAndType returns an existing asset matching name and type, or nil.
func (r *AssetRepository) FindByNameAndType(ctx context.Context, name string, assetType models.AssetType) (*models.Asset, error) {
	var asset models.Asset
	result := r.db.WithContext(ctx).First(&asset, "name = ? AND type = ?", name, assetType)
	if result.Error != nil {
		return nil, notFoundToNil(result.Error)
	}
	return &asset, nil
}

// Create creates a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = cuid.New()
	}
	if asset.Tags == nil {
		asset.Tags = []string{}
	}
	return r.db.WithContext(ctx).Create(asset).Error
}

// Update replaces an existing asset.
func (r *AssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	return replace(ctx, r.db, &models.Asset{}, asset.ID, asset)
}

// Delete deletes an asset by ID.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Asset{}, "id = ?", id).Error
}
