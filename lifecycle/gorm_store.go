package lifecycle

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/models"
)

// gormStore runs the lifecycle writes against the shared GORM handle.
// The unique indexes on dispatches and followups do the race-proofing;
// this layer only translates their violations.
type gormStore struct{}

func NewGormStore() Store { return gormStore{} }

func (gormStore) ActiveTeacherByBarcode(code string) (*models.Teacher, error) {
	var t models.Teacher
	err := database.DB.Where("barcode = ? AND is_active = ?", code, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (gormStore) CreateDispatch(d *models.Dispatch, first *models.Followup) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		first.DispatchID = d.ID
		return tx.Create(first).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: dispatch exists for teacher %d on %s", ErrConflict, d.TeacherID, d.DispatchDate)
	}
	return err
}

func (gormStore) FollowupByID(id uint) (*models.Followup, error) {
	var f models.Followup
	err := database.DB.First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (gormStore) DispatchByID(id uint) (*models.Dispatch, error) {
	var d models.Dispatch
	err := database.DB.First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (gormStore) SaveFollowup(f *models.Followup, next *models.Followup) (bool, error) {
	created := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(f).Error; err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		// ON CONFLICT DO NOTHING: a concurrent or retried resolution that
		// already inserted this level leaves RowsAffected at 0.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(next)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	return created, err
}
