package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// CatalogRepository serves the read-only service/doctor reference data.
// Rows are written only by the startup seeder.
type CatalogRepository interface {
	ListServices() ([]domain.Service, error)
	ListDoctors() ([]domain.Doctor, error)
	ListDoctorsByService(serviceID uint) ([]domain.Doctor, error)
	FindDoctorByID(id uint) (domain.Doctor, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListServices() ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.Order("id").Find(&services).Error
	return services, err
}

func (r *catalogRepository) ListDoctors() ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	err := r.db.Preload("Service").Order("id").Find(&doctors).Error
	return doctors, err
}

func (r *catalogRepository) ListDoctorsByService(serviceID uint) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	err := r.db.Preload("Service").Where("service_id = ?", serviceID).Order("id").Find(&doctors).Error
	return doctors, err
}

func (r *catalogRepository) FindDoctorByID(id uint) (domain.Doctor, error) {
	var doctor domain.Doctor
	if err := r.db.Preload("Service").First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Doctor{}, fmt.Errorf("%w: doctor %d", domain.ErrNotFound, id)
		}
		return domain.Doctor{}, err
	}
	return doctor, nil
}
