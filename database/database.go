package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"stock-portfolio/models"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Stock{},
		&models.StockPrice{},
		&models.Holding{},
		&models.Transaction{},
		&models.WatchlistEntry{},
		&models.News{},
	)
}

var (
	ErrInvalidBatchSize = fmt.Errorf("invalid batch size")
	ErrInvalidData      = fmt.Errorf("invalid data, expected slice")
)

// CreateInBatches inserts the elements of the slice data in chunks of
// batchSize inside one transaction.
func CreateInBatches(ctx context.Context, db *gorm.DB, data interface{}, batchSize int) error {
	if batchSize <= 0 {
		return ErrInvalidBatchSize
	}

	slice := reflect.ValueOf(data)
	if slice.Kind() != reflect.Slice {
		return ErrInvalidData
	}

	total := slice.Len()
	if total == 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < total; i += batchSize {
			end := i + batchSize
			if end > total {
				end = total
			}

			chunk := slice.Slice(i, end).Interface()
			if err := tx.Create(chunk).Error; err != nil {
				return fmt.Errorf("batch insert failed: %w", err)
			}
		}
		return nil
	})
}

// storeError maps a gorm error onto the failure kinds in models.
// stockError is storeError for stock lookups.
func stockError(err error, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%v: %w", id, models.ErrStockNotFound)
	}
	return storeError(err, fmt.Sprintf("stock %v", id))
}

func storeError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", what, models.ErrStoreFailure, err)
}
