package report

import (
	"context"
	"time"

	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/report"
	"github.com/school/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// weekDays is the span of the weekly attendance summary, today included
const weekDays = 7

// DashboardService assembles the landing page statistics
type DashboardService struct {
	reader report.DashboardReader
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(reader report.DashboardReader, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
}

// Stats runs the dashboard queries concurrently. A failing query is logged
// and its figure left at zero so one bad aggregate never blanks the page.
func (s *DashboardService) Stats(ctx context.Context) *report.Dashboard {
	today := attendance.Day(s.now())
	weekStart := today.AddDate(0, 0, -(weekDays - 1))

	d := &report.Dashboard{
		RecentActivity:     []report.Activity{},
		EnrollmentsByClass: []report.ClassFill{},
	}
	var (
		todayBreakdown report.StatusBreakdown
		dueAmount      decimal.Decimal
		activity       []report.Activity
		fills          []report.ClassFill
	)

	g, gctx := errgroup.WithContext(ctx)
	run := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				s.logger.Warn("Dashboard query failed", zap.String("query", name), zap.Error(err))
			}
			return nil
		})
	}

	run("students", func(ctx context.Context) (err error) {
		d.TotalStudents, err = s.reader.CountActiveStudents(ctx)
		return err
	})
	run("teachers", func(ctx context.Context) (err error) {
		d.TotalTeachers, err = s.reader.CountTeachers(ctx)
		return err
	})
	run("classes", func(ctx context.Context) (err error) {
		d.TotalClasses, err = s.reader.CountClasses(ctx)
		return err
	})
	run("staff", func(ctx context.Context) (err error) {
		d.TotalStaff, err = s.reader.CountStaff(ctx)
		return err
	})
	run("attendance_today", func(ctx context.Context) (err error) {
		todayBreakdown, err = s.reader.AttendanceBreakdown(ctx, today, today)
		return err
	})
	run("attendance_week", func(ctx context.Context) (err error) {
		d.WeeklyAttendanceSummary, err = s.reader.AttendanceBreakdown(ctx, weekStart, today)
		return err
	})
	run("fees_due", func(ctx context.Context) (err error) {
		d.FeesDueCount, dueAmount, err = s.reader.OutstandingFees(ctx)
		return err
	})
	run("recent_activity", func(ctx context.Context) (err error) {
		activity, err = s.reader.RecentActivity(ctx, report.RecentActivityLimit)
		return err
	})
	run("class_enrollments", func(ctx context.Context) (err error) {
		fills, err = s.reader.ClassEnrollments(ctx)
		return err
	})
	_ = g.Wait()

	d.TodayAttendanceMarked = todayBreakdown.Total()
	d.TodayAttendancePercentage = shared.Percentage(todayBreakdown.Present+todayBreakdown.Late, todayBreakdown.Total())
	d.FeesDueAmount = dueAmount.Round(2).InexactFloat64()
	if activity != nil {
		d.RecentActivity = activity
	}
	for _, f := range fills {
		f.Available = max(int64(f.Capacity)-f.Enrolled, 0)
		f.FillPercentage = academic.FillPercentage(f.Enrolled, f.Capacity)
		d.EnrollmentsByClass = append(d.EnrollmentsByClass, f)
	}
	return d
}
