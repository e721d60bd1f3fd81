package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SystemActor is shown for audit entries without an actor
const SystemActor = "System"

// RecentActivityLimit is the length of the dashboard activity feed
const RecentActivityLimit = 10

// Activity is one line of the recent activity feed
type Activity struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	Summary   string    `json:"summary"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClassFill is the enrollment level of one class
type ClassFill struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Capacity       int       `json:"capacity"`
	Enrolled       int64     `json:"enrolled"`
	Available      int64     `json:"available"`
	FillPercentage float64   `json:"fillPercentage"`
}

// StatusBreakdown counts attendance records by status
type StatusBreakdown struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
}

// Total is the number of records in the breakdown
func (b StatusBreakdown) Total() int64 {
	return b.Present + b.Absent + b.Late
}

// Dashboard is the landing page summary
type Dashboard struct {
	TotalStudents             int64           `json:"totalStudents"`
	TotalTeachers             int64           `json:"totalTeachers"`
	TotalClasses              int64           `json:"totalClasses"`
	TotalStaff                int64           `json:"totalStaff"`
	TodayAttendanceMarked     int64           `json:"todayAttendanceMarked"`
	TodayAttendancePercentage float64         `json:"todayAttendancePercentage"`
	FeesDueCount              int64           `json:"feesDueCount"`
	FeesDueAmount             float64         `json:"feesDueAmount"`
	RecentActivity            []Activity      `json:"recentActivity"`
	EnrollmentsByClass        []ClassFill     `json:"enrollmentsByClass"`
	WeeklyAttendanceSummary   StatusBreakdown `json:"weeklyAttendanceSummary"`
}

// DashboardReader runs the read-only queries behind the dashboard
type DashboardReader interface {
	CountActiveStudents(ctx context.Context) (int64, error)
	CountTeachers(ctx context.Context) (int64, error)
	CountClasses(ctx context.Context) (int64, error)
	// CountStaff counts ADMIN and STAFF accounts
	CountStaff(ctx context.Context) (int64, error)
	// AttendanceBreakdown counts records with from <= date <= to
	AttendanceBreakdown(ctx context.Context, from, to time.Time) (StatusBreakdown, error)
	// OutstandingFees returns the count and total balance of unpaid fees
	OutstandingFees(ctx context.Context) (int64, decimal.Decimal, error)
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
	// ClassEnrollments returns capacity and enrolled count per class;
	// Available and FillPercentage are left for the caller.
	ClassEnrollments(ctx context.Context) ([]ClassFill, error)
}
