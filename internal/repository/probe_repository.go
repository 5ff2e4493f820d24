package repository

import (
	"context"

	"gorm.io/gorm"
)

type ProbeRepository struct {
	db    *gorm.DB
	table string
}

func NewProbeRepository(db *gorm.DB, table string) *ProbeRepository {
	return &ProbeRepository{
		db:    db,
		table: table,
	}
}

// ProbeOne reads at most one row from the probe table. An empty table is not
// an error.
func (r *ProbeRepository) ProbeOne(ctx context.Context) error {
	var rows []map[string]interface{}
	return r.db.WithContext(ctx).Table(r.table).Limit(1).Find(&rows).Error
}
