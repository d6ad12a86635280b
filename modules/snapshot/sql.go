package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one stored snapshot row.
type Record struct {
	Key       string    `gorm:"column:snapshot_key;primarykey;size:255"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for Record model.
func (Record) TableName() string {
	return "snapshots"
}

// sqlStore keeps snapshots in a relational table through gorm.
type sqlStore struct {
	db *gorm.DB
}

// NewSQLStore migrates the snapshots table and returns a Store over db.
// Close closes the underlying connection pool.
func NewSQLStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "snapshot_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}
	return true, decode(key, rec.Data, dest)
}

func (s *sqlStore) Save(ctx context.Context, key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	rec := Record{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Record{}, "snapshot_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
