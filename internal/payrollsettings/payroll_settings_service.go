package payrollsettings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/payroll/engine"
	payrollsettingserrors "go-payroll/internal/payrollsettings/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	SnapshotKeyPrefix = "payroll_settings:snapshot:"
	snapshotTTL       = 10 * time.Minute
)

func GetSnapshotKey(companyID string) string {
	return SnapshotKeyPrefix + companyID
}

//go:generate mockgen -source=payroll_settings_service.go -destination=mock/payroll_settings_service_mock.go -package=mock
type Service interface {
	// Snapshot returns an independent copy; callers may keep it for a whole
	// batch without observing later updates.
	Snapshot(ctx context.Context, companyID string) (engine.Settings, error)
	Get(ctx context.Context, companyID string) (SettingsResponse, error)
	Update(ctx context.Context, companyID, actorID string, req UpdateSettingsRequest) (SettingsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollsettings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollsettings.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

type loaded struct {
	settings  engine.Settings
	isDefault bool
	updatedAt time.Time
}

func (s *service) Snapshot(ctx context.Context, companyID string) (engine.Settings, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return engine.Settings{}, payrollsettingserrors.ErrInvalidCompanyID
	}

	cacheKey := GetSnapshotKey(companyID)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var settings engine.Settings
			if err := json.Unmarshal([]byte(cached), &settings); err == nil {
				return settings, nil
			}
		}
	}

	// Gunakan singleflight agar satu batch besar tidak memicu query berulang
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		l, err := s.load(ctx, s.repo, companyID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(l.settings); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, snapshotTTL).Err(); err != nil {
					s.logger.Warn("cache settings snapshot failed", zap.String("company_id", companyID), zap.Error(err))
				}
			}
		}
		return l.settings, nil
	})
	if err != nil {
		return engine.Settings{}, err
	}

	return v.(engine.Settings).Clone(), nil
}

func (s *service) Get(ctx context.Context, companyID string) (SettingsResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return SettingsResponse{}, payrollsettingserrors.ErrInvalidCompanyID
	}

	l, err := s.load(ctx, s.repo, companyID)
	if err != nil {
		return SettingsResponse{}, err
	}
	return mapToResponse(companyID, l.settings, l.isDefault, l.updatedAt), nil
}

// load falls back to the built-in defaults, with version 0, when the company
// has never saved its own settings.
func (s *service) load(ctx context.Context, repo Repository, companyID string) (loaded, error) {
	row, err := repo.FindByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := engine.DefaultSettings()
			defaults.Version = 0
			return loaded{settings: defaults, isDefault: true}, nil
		}
		return loaded{}, err
	}

	settings, err := toEngine(*row)
	if err != nil {
		s.logger.Error("stored payroll settings are unreadable",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return loaded{}, err
	}
	return loaded{settings: settings, updatedAt: row.UpdatedAt}, nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, actorID string,
	req UpdateSettingsRequest,
) (SettingsResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SettingsResponse{}, payrollsettingserrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update settings begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SettingsResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := s.load(ctx, qtx, companyID)
	if err != nil {
		return SettingsResponse{}, err
	}
	if current.settings.Version != req.Version {
		return SettingsResponse{}, payrollsettingserrors.ErrVersionConflict
	}

	next := req.apply(current.settings)
	if err := validate(next); err != nil {
		return SettingsResponse{}, apperror.Wrap(err,
			payrollsettingserrors.ErrInvalidSettings.Code,
			payrollsettingserrors.ErrInvalidSettings.Message,
			payrollsettingserrors.ErrInvalidSettings.HTTPStatus,
		)
	}

	row, err := fromEngine(companyUUID, next)
	if err != nil {
		return SettingsResponse{}, err
	}
	row.ID = uuid.New()
	if actor, err := uuid.Parse(actorID); err == nil {
		row.UpdatedBy = &actor
	}

	if err := qtx.Save(ctx, &row, req.Version); err != nil {
		return SettingsResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update settings commit failed", zap.String("request_id", rid), zap.Error(err))
		return SettingsResponse{}, err
	}

	if s.rdb != nil {
		cacheKey := GetSnapshotKey(companyID)
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.Error("invalidate settings snapshot failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	next.Version = row.Version
	s.logger.Info("payroll settings updated",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.Int64("version", row.Version),
	)
	return mapToResponse(companyID, next, false, row.UpdatedAt), nil
}

func validate(s engine.Settings) error {
	one := decimal.NewFromInt(1)

	if !s.ProrationFloor.IsPositive() || s.ProrationFloor.GreaterThan(one) {
		return fmt.Errorf("proration_floor must be in (0, 1]")
	}
	// presisi dibatasi kolom numeric di tabel payrolls
	if s.FactorPrecision < 1 || s.FactorPrecision > engine.MaxFactorPrecision {
		return fmt.Errorf("factor_precision must be between 1 and %d", engine.MaxFactorPrecision)
	}
	if s.RoundingPlaces < 1 || s.RoundingPlaces > engine.MaxRoundingPlaces {
		return fmt.Errorf("rounding_places must be between 1 and %d", engine.MaxRoundingPlaces)
	}
	if s.FallbackBaselineSalary.IsNegative() {
		return fmt.Errorf("fallback_baseline_salary must not be negative")
	}

	rates := map[string]decimal.Decimal{
		"absent_rate_per_day":         s.AbsentRatePerDay,
		"late_rate_per_day":           s.LateRatePerDay,
		"leave_rate_per_day":          s.LeaveRatePerDay,
		"standard_hours_per_day":      s.StandardHoursPerDay,
		"default_overtime_multiplier": s.DefaultOvertimeMultiplier,
	}
	for name, v := range rates {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if !s.StandardHoursPerDay.IsPositive() {
		return fmt.Errorf("standard_hours_per_day must be positive")
	}

	for name, pct := range s.AllowancePercentages {
		if pct.IsNegative() || pct.GreaterThan(one) {
			return fmt.Errorf("allowance %s percentage must be in [0, 1]", name)
		}
	}
	for name, rule := range s.Statutory {
		if rule.BaseRate.IsNegative() {
			return fmt.Errorf("statutory %s base rate must not be negative", name)
		}
		if rule.Clamped && rule.Min.GreaterThan(rule.Max) {
			return fmt.Errorf("statutory %s min exceeds max", name)
		}
	}

	switch s.StoredValuePolicy {
	case engine.PolicyRecompute, engine.PolicyPreferStored:
	default:
		return fmt.Errorf("unknown stored_value_policy %q", s.StoredValuePolicy)
	}
	return nil
}
