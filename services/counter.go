// services/counter.go - Named atomic counters
package services

import (
	"volunhub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterName for public volunteer numbers assigned at registration.
const CounterVolunteerNo = "volunteer-no"

// CounterService advances named sequences through conditional updates against
// the store. No in-process shared state.
type CounterService struct {
	db *gorm.DB
}

func NewCounterService(db *gorm.DB) *CounterService {
	return &CounterService{db: db}
}

// Next increments the named counter and returns the new value. The row is
// created on first use.
func (s *CounterService) Next(name string) (int64, error) {
	var value int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Counter{Name: name, Value: 0}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Counter{}).
			Where("name = ?", name).
			Update("value", gorm.Expr("value + 1")).Error; err != nil {
			return err
		}

		var counter models.Counter
		if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
			return err
		}
		value = counter.Value
		return nil
	})
	return value, err
}
