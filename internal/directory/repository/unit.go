package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/directory/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type unitDirectory struct {
	db *gorm.DB
}

func NewUnitDirectory(db *gorm.DB) domain.UnitDirectory {
	return &unitDirectory{db: db}
}

func (d *unitDirectory) Exists(ctx context.Context, unitID snowflake.ID) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM units WHERE id = ?`, unitID).Scan(&count).Error
	if err != nil {
		return false, apperr.Storage("unit exists", err)
	}
	return count > 0, nil
}

func (d *unitDirectory) UnitsForResident(ctx context.Context, residentID snowflake.ID) ([]snowflake.ID, error) {
	var raw []int64
	err := d.db.WithContext(ctx).Raw(
		`SELECT unit_id FROM unit_residents WHERE resident_id = ? ORDER BY unit_id`,
		residentID,
	).Scan(&raw).Error
	if err != nil {
		return nil, apperr.Storage("units for resident", err)
	}
	ids := make([]snowflake.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, snowflake.ID(id))
	}
	return ids, nil
}
