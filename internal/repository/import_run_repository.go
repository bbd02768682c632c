package repository

import (
	"github.com/mstolarczyk/Goshawk/internal/model"
	"gorm.io/gorm"
)

type ImportRunRepository interface {
	Create(run *model.ImportRun) error
	Update(run *model.ImportRun) error
	// AppendIssue writes one issue through the given handle, which is either
	// the root connection or a row transaction. Issues written inside a row
	// transaction disappear with it when the row is rolled back.
	AppendIssue(tx *gorm.DB, issue *model.ImportIssue) error
	FindAll(limit int) ([]model.ImportRun, error)
	FindByIDWithIssues(id uint) (*model.ImportRun, error)
}

type importRunRepository struct {
	db *gorm.DB
}

func NewImportRunRepository(db *gorm.DB) ImportRunRepository {
	return &importRunRepository{db: db}
}

func (r *importRunRepository) Create(run *model.ImportRun) error {
	return r.db.Create(run).Error
}

func (r *importRunRepository) Update(run *model.ImportRun) error {
	return r.db.Save(run).Error
}

func (r *importRunRepository) AppendIssue(tx *gorm.DB, issue *model.ImportIssue) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(issue).Error
}

func (r *importRunRepository) FindAll(limit int) ([]model.ImportRun, error) {
	var runs []model.ImportRun
	query := r.db.Order("started_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *importRunRepository) FindByIDWithIssues(id uint) (*model.ImportRun, error) {
	var run model.ImportRun
	err := r.db.Preload("Issues", func(db *gorm.DB) *gorm.DB {
		return db.Order("import_issues.id ASC")
	}).First(&run, id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
