package repository

import (
	"errors"

	"github.com/mstolarczyk/Goshawk/internal/model"
	"gorm.io/gorm"
)

type LicenseCategoryRepository interface {
	// FindOrCreateByCode looks a category up through the given handle so
	// creation joins the caller's transaction; nil means the root connection.
	FindOrCreateByCode(tx *gorm.DB, code string) (*model.LicenseCategory, error)
	FindAll() ([]model.LicenseCategory, error)
}

type licenseCategoryRepository struct {
	db *gorm.DB
}

func NewLicenseCategoryRepository(db *gorm.DB) LicenseCategoryRepository {
	return &licenseCategoryRepository{db: db}
}

func (r *licenseCategoryRepository) FindOrCreateByCode(tx *gorm.DB, code string) (*model.LicenseCategory, error) {
	if tx == nil {
		tx = r.db
	}
	var category model.LicenseCategory
	err := tx.Where("code = ?", code).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = model.LicenseCategory{Code: code, Name: code, Active: true}
	if err := tx.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *licenseCategoryRepository) FindAll() ([]model.LicenseCategory, error) {
	var categories []model.LicenseCategory
	if err := r.db.Order("code asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
