package payrollsettings

import (
	"context"
	"database/sql"

	payrollsettingserrors "go-payroll/internal/payrollsettings/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_settings_repo.go -destination=mock/payroll_settings_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByCompany(ctx context.Context, companyID string) (*PayrollSettings, error)
	// Save inserts the first row of a company when expectedVersion is 0 and
	// otherwise updates the row still holding expectedVersion.
	Save(ctx context.Context, settings *PayrollSettings, expectedVersion int64) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindByCompany(ctx context.Context, companyID string) (*PayrollSettings, error) {
	var settings PayrollSettings
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Save(ctx context.Context, settings *PayrollSettings, expectedVersion int64) error {
	settings.Version = expectedVersion + 1

	var res *gorm.DB
	if expectedVersion == 0 {
		// dua request pertama yang bersamaan: satu menang, satu conflict
		res = r.conn(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "company_id"}},
				DoNothing: true,
			}).
			Create(settings)
	} else {
		res = r.conn(ctx).
			Model(&PayrollSettings{}).
			Where("company_id = ? AND version = ?", settings.CompanyID, expectedVersion).
			Select("*").
			Omit("id", "company_id", "created_at").
			Updates(settings)
	}

	if res.Error != nil {
		settings.Version = expectedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		settings.Version = expectedVersion
		return payrollsettingserrors.ErrVersionConflict
	}
	return nil
}
