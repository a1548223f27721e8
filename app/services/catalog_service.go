package services

import (
	"fmt"
	"log"

	"ComandaApp/app/database"
	"ComandaApp/app/models"
)

// CatalogService handles menu catalog operations
type CatalogService struct {
	*BaseService
	localDB *database.LocalDB
}

// NewCatalogService creates a new catalog service
func NewCatalogService() *CatalogService {
	return &CatalogService{
		BaseService: &BaseService{db: database.GetDB()},
		localDB:     database.GetLocalDB(),
	}
}

// GetAllOptions gets all active catalog options ordered for display
func (s *CatalogService) GetAllOptions() ([]models.CatalogOption, error) {
	var options []models.CatalogOption

	err := s.db.Where("is_active = ?", true).
		Order("slot, display_order, name").
		Find(&options).Error

	return options, err
}

// GetOptionsBySlot gets the active options of one selection step
func (s *CatalogService) GetOptionsBySlot(slot models.OptionSlot) ([]models.CatalogOption, error) {
	var options []models.CatalogOption

	err := s.db.Where("slot = ? AND is_active = ?", slot, true).
		Order("display_order, name").
		Find(&options).Error

	return options, err
}

// GetOption gets a single catalog option by ID
func (s *CatalogService) GetOption(id uint) (*models.CatalogOption, error) {
	var option models.CatalogOption
	err := s.db.First(&option, id).Error
	return &option, err
}

// CreateOption creates a new catalog option. The kind tag is derived from
// the name on save, so imported rows behave the same as hand-created ones.
func (s *CatalogService) CreateOption(option *models.CatalogOption) error {
	if option.Slot == "" {
		return fmt.Errorf("catalog option needs a slot")
	}
	return s.db.Create(option).Error
}

// UpdateOption updates a catalog option
func (s *CatalogService) UpdateOption(option *models.CatalogOption) error {
	return s.db.Save(option).Error
}

// DeleteOption soft deletes a catalog option
func (s *CatalogService) DeleteOption(id uint) error {
	return s.db.Delete(&models.CatalogOption{}, id).Error
}

// SetFinished marks an option as sold out for the day (agotado)
func (s *CatalogService) SetFinished(id uint, finished bool) error {
	return s.db.Model(&models.CatalogOption{}).
		Where("id = ?", id).
		Update("is_finished", finished).Error
}

// ResetFinished clears all sold-out flags, typically at day open
func (s *CatalogService) ResetFinished() error {
	return s.db.Model(&models.CatalogOption{}).
		Where("is_finished = ?", true).
		Update("is_finished", false).Error
}

// Snapshot loads the catalog into the in-memory form the order intake
// works against. Falls back to the locally cached copy when the main
// database is unreachable.
func (s *CatalogService) Snapshot() (*models.CatalogSnapshot, error) {
	if s.localDB.IsOfflineMode() {
		cached, err := s.localDB.CachedCatalog()
		if err != nil {
			return nil, fmt.Errorf("offline and no cached catalog: %w", err)
		}
		return models.NewCatalogSnapshot(cached), nil
	}

	options, err := s.GetAllOptions()
	if err != nil {
		return nil, err
	}

	// Refresh the offline cache while we have a good copy
	if cacheErr := s.localDB.CacheCatalog(options); cacheErr != nil {
		log.Printf("Warning: could not refresh offline catalog cache: %v", cacheErr)
	}

	return models.NewCatalogSnapshot(options), nil
}
