package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/directory/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type staffDirectory struct {
	db *gorm.DB
}

func NewStaffDirectory(db *gorm.DB) domain.StaffDirectory {
	return &staffDirectory{db: db}
}

func (d *staffDirectory) Get(ctx context.Context, staffID snowflake.ID) (domain.Staff, error) {
	var staff domain.Staff
	err := d.db.WithContext(ctx).Raw(
		`SELECT id, name, role FROM users WHERE id = ? AND role IN (?, ?)`,
		staffID, domain.RoleStaff, domain.RoleAdmin,
	).Scan(&staff).Error
	if err != nil {
		return domain.Staff{}, apperr.Storage("get staff", err)
	}
	if staff.ID == 0 {
		return domain.Staff{}, domain.ErrStaffNotFound
	}
	return staff, nil
}
