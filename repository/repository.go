package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cepro/gridbuilder/network"
)

// Repository stores built network records to the local file system (sqlite)
// before they are uploaded to the data platform.
type Repository struct {
	db *gorm.DB
}

func New(path string) (*Repository, error) {

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Migrate the schema
	err = db.AutoMigrate(&StoredCarrier{}, &StoredGenerator{}, &StoredStorageUnit{}, &StoredLoad{})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

func (r *Repository) AddCarrier(c network.Carrier) error {
	result := r.db.Create(newStoredCarrier(c))
	return result.Error
}

func (r *Repository) AddGenerator(g network.Generator) error {
	result := r.db.Create(newStoredGenerator(g))
	return result.Error
}

func (r *Repository) AddStorageUnit(s network.StorageUnit) error {
	result := r.db.Create(newStoredStorageUnit(s))
	return result.Error
}

func (r *Repository) AddLoad(l network.Load) error {
	result := r.db.Create(newStoredLoad(l))
	return result.Error
}

func (r *Repository) DeleteRecords(records interface{}) error {
	result := r.db.Delete(&records)
	return result.Error
}

func (r *Repository) GetCarriers(limit int, fresh bool) ([]StoredCarrier, error) {
	var records []StoredCarrier
	result := r.uploadQuery(limit, fresh, "name asc").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (r *Repository) GetGenerators(limit int, fresh bool) ([]StoredGenerator, error) {
	var records []StoredGenerator
	result := r.uploadQuery(limit, fresh, "name asc").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (r *Repository) GetStorageUnits(limit int, fresh bool) ([]StoredStorageUnit, error) {
	var records []StoredStorageUnit
	result := r.uploadQuery(limit, fresh, "name asc").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (r *Repository) GetLoads(limit int, fresh bool) ([]StoredLoad, error) {
	var records []StoredLoad
	result := r.uploadQuery(limit, fresh, "name asc").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// uploadQuery selects records for an upload attempt: fresh records have never
// been attempted, the rest have failed at least once.
func (r *Repository) uploadQuery(limit int, fresh bool, order string) *gorm.DB {
	query := r.db.Limit(limit).Order("upload_attempt_count asc, " + order)
	if fresh {
		query = query.Where("upload_attempt_count = ?", 0)
	} else {
		query = query.Where("upload_attempt_count > ?", 0)
		// TODO: do we want to give up after a certain amount of attempts?
	}
	return query
}

func (r *Repository) IncrementUploadAttemptCount(records interface{}) error {
	result := r.db.Model(records).UpdateColumn("upload_attempt_count", gorm.Expr("upload_attempt_count + ?", 1))
	return result.Error
}
