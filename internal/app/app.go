// Package app wires repositories, services and handlers over one
// database pool.
package app

import (
	"github.com/school/backend/internal/application/academic"
	"github.com/school/backend/internal/application/assessment"
	"github.com/school/backend/internal/application/attendance"
	"github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/application/finance"
	"github.com/school/backend/internal/application/identity"
	"github.com/school/backend/internal/application/report"
	"github.com/school/backend/internal/infrastructure/auth"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/internal/infrastructure/telemetry"
	"github.com/school/backend/internal/interfaces/http/handler"
	"github.com/school/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options are the process-wide dependencies
type Options struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
	// Metrics is optional
	Metrics *telemetry.SchoolMetrics
	// AttendanceConcurrency bounds the bulk marking fan-out; 0 keeps the default
	AttendanceConcurrency int
	ExposeErrors          bool
	Version               string
}

// Container holds the wired application
type Container struct {
	Users     *persistence.GormUserRepository
	Dashboard *persistence.GormDashboardReader

	Auth       *identity.AuthService
	Staff      *identity.StaffService
	Students   *academic.StudentService
	Teachers   *academic.TeacherService
	Classes    *academic.ClassService
	Subjects   *academic.SubjectService
	Enrollment *academic.EnrollmentService
	Attendance *attendance.Service
	Fees       *finance.FeeService
	Marks      *assessment.Service
	Audit      *audit.Service
	Reports    *report.DashboardService

	opts Options
}

// New builds every repository and service
func New(opts Options) *Container {
	db, log := opts.DB, opts.Logger
	if log == nil {
		log = zap.NewNop()
		opts.Logger = log
	}

	users := persistence.NewGormUserRepository(db)
	students := persistence.NewGormStudentRepository(db)
	teachers := persistence.NewGormTeacherRepository(db)
	classes := persistence.NewGormClassRepository(db)
	subjects := persistence.NewGormSubjectRepository(db)
	enrollments := persistence.NewGormEnrollmentRepository(db)
	records := persistence.NewGormAttendanceRepository(db)
	fees := persistence.NewGormFeeRepository(db)
	marks := persistence.NewGormMarkRepository(db)
	audits := persistence.NewGormAuditRepository(db)
	dashboard := persistence.NewGormDashboardReader(db)

	recorder := audit.NewRecorder(audits, log.Named("audit"))

	var attendanceOpts []attendance.Option
	if opts.AttendanceConcurrency > 0 {
		attendanceOpts = append(attendanceOpts, attendance.WithMaxConcurrency(opts.AttendanceConcurrency))
	}
	if opts.Metrics != nil {
		attendanceOpts = append(attendanceOpts, attendance.WithMetrics(opts.Metrics))
	}

	c := &Container{
		Users:      users,
		Dashboard:  dashboard,
		Auth:       identity.NewAuthService(users, opts.JWT, opts.Blacklist, recorder, log.Named("auth")),
		Staff:      identity.NewStaffService(users, recorder, log.Named("staff")),
		Students:   academic.NewStudentService(students, enrollments, records, fees, recorder, log.Named("students")),
		Teachers:   academic.NewTeacherService(teachers, recorder, log.Named("teachers")),
		Classes:    academic.NewClassService(classes, teachers, subjects, students, recorder, log.Named("classes")),
		Subjects:   academic.NewSubjectService(subjects, recorder, log.Named("subjects")),
		Enrollment: academic.NewEnrollmentService(enrollments, students, classes, recorder, log.Named("enrollments")),
		Attendance: attendance.NewService(records, classes, students, recorder, log.Named("attendance"), attendanceOpts...),
		Fees:       finance.NewFeeService(fees, students, recorder, log.Named("fees")),
		Marks:      assessment.NewService(marks, students, subjects, classes, recorder, log.Named("marks")),
		Audit:      audit.NewService(audits),
		Reports:    report.NewDashboardService(dashboard, log.Named("dashboard")),
		opts:       opts,
	}
	if opts.Metrics != nil {
		c.Auth.SetMetrics(opts.Metrics)
		c.Fees.SetMetrics(opts.Metrics)
	}
	return c
}

// Handlers builds the HTTP handlers. db answers the health check.
func (c *Container) Handlers(db handler.Pinger) router.Handlers {
	base := handler.BaseHandler{ExposeErrors: c.opts.ExposeErrors}
	system := handler.NewSystemHandler(db, c.opts.Version)
	return router.Handlers{
		Auth:       handler.NewAuthHandler(base, c.Auth),
		Staff:      handler.NewStaffHandler(base, c.Staff),
		Student:    handler.NewStudentHandler(base, c.Students),
		Teacher:    handler.NewTeacherHandler(base, c.Teachers),
		Class:      handler.NewClassHandler(base, c.Classes),
		Subject:    handler.NewSubjectHandler(base, c.Subjects),
		Enrollment: handler.NewEnrollmentHandler(base, c.Enrollment),
		Attendance: handler.NewAttendanceHandler(base, c.Attendance),
		Fee:        handler.NewFeeHandler(base, c.Fees),
		Mark:       handler.NewMarkHandler(base, c.Marks),
		Dashboard:  handler.NewDashboardHandler(base, c.Reports),
		Audit:      handler.NewAuditHandler(base, c.Audit),
		System:     system,
	}
}
