package repository

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/util"

	"gorm.io/gorm"
)

type DiagnosticRepository struct {
	DB *gorm.DB
}

func NewDiagnosticRepository(db *gorm.DB) *DiagnosticRepository {
	return &DiagnosticRepository{DB: db}
}

func (r *DiagnosticRepository) Create(attempt *model.DiagnosticAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *DiagnosticRepository) FindByID(id string) (*model.DiagnosticAttempt, error) {
	var attempt model.DiagnosticAttempt
	err := r.DB.Where("id = ?", id).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *DiagnosticRepository) Update(attempt *model.DiagnosticAttempt) error {
	return r.DB.Save(attempt).Error
}
