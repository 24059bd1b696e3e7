package payroll

import (
	"context"
	"database/sql"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAllByCompany(ctx context.Context, companyID string, filter PayrollQueryFilter) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error)
	FindByIDsAndCompany(ctx context.Context, companyID string, ids []string) ([]Payroll, error)
	FindByEmployeePeriod(ctx context.Context, companyID string, employeeID string, month, year int) (*Payroll, error)
	FindUnlockedByPeriod(ctx context.Context, month, year int) ([]Payroll, error)
	HasPeriod(ctx context.Context, companyID string, employeeID string, month, year int) (bool, error)
	Update(ctx context.Context, payroll *Payroll, expectedVersion int64) error
	ReplaceComponents(ctx context.Context, payroll *Payroll) error
	AppendOverrideLogs(ctx context.Context, logs []PayrollOverrideLog) error
	Delete(ctx context.Context, companyID string, id string) error
	EmployeeBelongsToCompany(ctx context.Context, companyID string, employeeID string) (bool, error)
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

// conn routes gorm through the caller's *sql.Tx when one is attached.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Employee").
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("component_type ASC, component_name ASC")
		}).
		Preload("OverrideLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("logged_at ASC")
		})
}

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Omit("Employee", "OverrideLogs").Create(payroll).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter PayrollQueryFilter) ([]Payroll, error) {
	db := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee")

	if filter.Month > 0 {
		db = db.Where("period_month = ?", filter.Month)
	}
	if filter.Year > 0 {
		db = db.Where("period_year = ?", filter.Year)
	}
	if filter.Status != "" {
		db = db.Where("payment_status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var payrolls []Payroll
	err := db.
		Order("period_year DESC, period_month DESC, created_at DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID), withRelations).
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) FindByIDsAndCompany(ctx context.Context, companyID string, ids []string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID), withRelations).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByEmployeePeriod(ctx context.Context, companyID string, employeeID string, month, year int) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID), tenant.Period(month, year), withRelations).
		Where("employee_id = ?", employeeID).
		First(&payroll).Error
	return &payroll, err
}

// FindUnlockedByPeriod spans every company; it backs the nightly recalculation.
func (r *repository) FindUnlockedByPeriod(ctx context.Context, month, year int) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.conn(ctx).
		Scopes(tenant.Period(month, year), withRelations).
		Where("payment_status IN ?", []string{"Pending", "Failed"}).
		Order("company_id ASC, created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) HasPeriod(ctx context.Context, companyID string, employeeID string, month, year int) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(companyID), tenant.Period(month, year)).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

// Update writes every column guarded by the optimistic version. The caller
// passes the version it read; the row is bumped to expectedVersion+1.
func (r *repository) Update(ctx context.Context, payroll *Payroll, expectedVersion int64) error {
	payroll.Version = expectedVersion + 1
	res := r.conn(ctx).
		Model(&Payroll{}).
		Where("id = ? AND company_id = ? AND version = ?", payroll.ID, payroll.CompanyID, expectedVersion).
		Select("*").
		Omit("id", "company_id", "employee_id", "created_by", "created_at", "deleted_at", clause.Associations).
		Updates(payroll)
	if res.Error != nil {
		payroll.Version = expectedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		payroll.Version = expectedVersion
		return payrollerrors.ErrConcurrentModification
	}
	return nil
}

func (r *repository) ReplaceComponents(ctx context.Context, payroll *Payroll) error {
	db := r.conn(ctx)
	if err := db.
		Where("payroll_id = ? AND company_id = ?", payroll.ID, payroll.CompanyID).
		Delete(&PayrollComponent{}).Error; err != nil {
		return err
	}
	if len(payroll.Components) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&payroll.Components).Error
}

// AppendOverrideLogs only inserts; override history is never rewritten.
func (r *repository) AppendOverrideLogs(ctx context.Context, logs []PayrollOverrideLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&logs).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payment_status IN ?", []string{"Pending", "Failed"}).
		Delete(&Payroll{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID string, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
