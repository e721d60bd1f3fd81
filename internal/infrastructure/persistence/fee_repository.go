package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeeRepository implements finance.FeeRepository using GORM
type GormFeeRepository struct {
	db *gorm.DB
}

// NewGormFeeRepository creates a new GormFeeRepository
func NewGormFeeRepository(db *gorm.DB) *GormFeeRepository {
	return &GormFeeRepository{db: db}
}

// FindByID finds a fee by ID
func (r *GormFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, finance.ErrFeeNotFound)
	}
	return model.ToDomain(), nil
}

// Payments lists the payments of a fee, oldest first
func (r *GormFeeRepository) Payments(ctx context.Context, feeID uuid.UUID) ([]finance.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("fee_id = ?", feeID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	payments := make([]finance.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

// List returns fees with their student, latest due date first
func (r *GormFeeRepository) List(ctx context.Context, filter finance.FeeFilter) ([]finance.FeeDetail, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeModel{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.AcademicYear != "" {
		query = query.Where("academic_year = ?", filter.AcademicYear)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.FeeModel
	if err := paginate(query, filter.Page).
		Preload("Student").
		Order("due_date DESC").Order("id").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	details := make([]finance.FeeDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDetail()
	}
	return details, total, nil
}

// Create inserts a fee
func (r *GormFeeRepository) Create(ctx context.Context, f *finance.Fee) error {
	return TranslateError(r.db.WithContext(ctx).Create(models.FeeModelFromDomain(f)).Error)
}

// Save updates a fee
func (r *GormFeeRepository) Save(ctx context.Context, f *finance.Fee) error {
	return updateRow(ctx, r.db, models.FeeModelFromDomain(f), finance.ErrFeeNotFound)
}

// Delete removes a fee and its payments
func (r *GormFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.FeeModel{}, id, finance.ErrFeeNotFound)
}

// RecordPayment applies fn to the row-locked fee and stores the result
// together with the new payment row.
func (r *GormFeeRepository) RecordPayment(ctx context.Context, feeID uuid.UUID, fn finance.PaymentFunc) (*finance.Fee, *finance.Payment, error) {
	var (
		fee     *finance.Fee
		payment *finance.Payment
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockQuery := tx
		if supportsRowLocks(tx) {
			lockQuery = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}
		var model models.FeeModel
		if err := lockQuery.First(&model, "id = ?", feeID).Error; err != nil {
			return notFound(err, finance.ErrFeeNotFound)
		}

		fee = model.ToDomain()
		p, err := fn(fee)
		if err != nil {
			return err
		}
		payment = p

		if err := updateRow(ctx, tx, models.FeeModelFromDomain(fee), finance.ErrFeeNotFound); err != nil {
			return err
		}
		return TranslateError(tx.Create(models.PaymentModelFromDomain(payment)).Error)
	})
	if err != nil {
		return nil, nil, err
	}
	return fee, payment, nil
}

// Summarize totals amounts across fees. Pending and overdue are
// outstanding balances; overdue only counts fees due before today.
func (r *GormFeeRepository) Summarize(ctx context.Context, studentID *uuid.UUID, today time.Time) (finance.Summary, error) {
	var row struct {
		TotalAmount   decimal.NullDecimal
		PaidAmount    decimal.NullDecimal
		OverdueAmount decimal.NullDecimal
	}
	query := r.db.WithContext(ctx).Model(&models.FeeModel{}).
		Select(
			"SUM(amount) AS total_amount, SUM(paid_amount) AS paid_amount, "+
				"SUM(CASE WHEN status <> ? AND due_date < ? THEN amount - paid_amount ELSE 0 END) AS overdue_amount",
			finance.FeePaid, datatypes.Date(startOfDayUTC(today)),
		)
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if err := query.Scan(&row).Error; err != nil {
		return finance.Summary{}, err
	}

	total := row.TotalAmount.Decimal
	paid := row.PaidAmount.Decimal
	return finance.Summary{
		TotalAmount:   total,
		PaidAmount:    paid,
		PendingAmount: total.Sub(paid),
		OverdueAmount: row.OverdueAmount.Decimal,
	}, nil
}

func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
