package router

import (
	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/interfaces/http/handler"
	"github.com/school/backend/internal/interfaces/http/middleware"
)

// Handlers holds every API handler
type Handlers struct {
	Auth       *handler.AuthHandler
	Staff      *handler.StaffHandler
	Student    *handler.StudentHandler
	Teacher    *handler.TeacherHandler
	Class      *handler.ClassHandler
	Subject    *handler.SubjectHandler
	Enrollment *handler.EnrollmentHandler
	Attendance *handler.AttendanceHandler
	Fee        *handler.FeeHandler
	Mark       *handler.MarkHandler
	Dashboard  *handler.DashboardHandler
	Audit      *handler.AuditHandler
	System     *handler.SystemHandler
}

// Guards are the middleware placed in front of protected routes
type Guards struct {
	// Authenticate resolves the caller; it runs first on every protected group
	Authenticate gin.HandlerFunc
	// Login throttles POST /auth/login; nil disables it
	Login gin.HandlerFunc
	// Extra runs after authentication, e.g. span attributes and profiling labels
	Extra []gin.HandlerFunc
}

func (g Guards) protect(roles []identity.Role) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{g.Authenticate}
	chain = append(chain, g.Extra...)
	return append(chain, middleware.RequireRoles(roles...))
}

// Groups builds the API route groups
func Groups(h Handlers, g Guards) []*DomainGroup {
	authGroup := NewDomainGroup("auth", "/auth")
	if g.Login != nil {
		authGroup.POST("/login", g.Login, h.Auth.Login)
	} else {
		authGroup.POST("/login", h.Auth.Login)
	}
	session := authGroup.Group("session", "").Use(g.protect(identity.StaffAndAbove)...)
	session.GET("/me", h.Auth.Me)
	session.POST("/logout", h.Auth.Logout)
	session.POST("/change-password", h.Auth.ChangePassword)

	staff := authGroup.Group("staff", "/staff").Use(g.protect(identity.AdminOnly)...)
	staff.POST("", h.Staff.Create)
	staff.GET("", h.Staff.List)
	staff.PATCH("/:id/deactivate", h.Staff.Deactivate)
	staff.PATCH("/:id/reactivate", h.Staff.Reactivate)
	staff.PATCH("/:id/reset-password", h.Staff.ResetPassword)

	staffOnly := g.protect(identity.StaffAndAbove)

	students := NewDomainGroup("students", "/students").Use(staffOnly...)
	students.POST("", h.Student.Create)
	students.GET("", h.Student.List)
	students.GET("/:id", h.Student.Get)
	students.PUT("/:id", h.Student.Update)
	students.DELETE("/:id", h.Student.Delete)

	teachers := NewDomainGroup("teachers", "/teachers").Use(staffOnly...)
	teachers.POST("", h.Teacher.Create)
	teachers.GET("", h.Teacher.List)
	teachers.GET("/:id", h.Teacher.Get)
	teachers.PUT("/:id", h.Teacher.Update)
	teachers.DELETE("/:id", h.Teacher.Delete)

	classes := NewDomainGroup("classes", "/classes").Use(staffOnly...)
	classes.POST("", h.Class.Create)
	classes.GET("", h.Class.List)
	classes.GET("/:id", h.Class.Get)
	classes.GET("/:id/students", h.Class.Students)
	classes.PUT("/:id", h.Class.Update)
	classes.PUT("/:id/subjects", h.Class.AssignSubjects)
	classes.DELETE("/:id", h.Class.Delete)

	subjects := NewDomainGroup("subjects", "/subjects").Use(staffOnly...)
	subjects.POST("", h.Subject.Create)
	subjects.GET("", h.Subject.List)
	subjects.GET("/:id", h.Subject.Get)
	subjects.PUT("/:id", h.Subject.Update)
	subjects.DELETE("/:id", h.Subject.Delete)

	enrollments := NewDomainGroup("enrollments", "/enrollments").Use(staffOnly...)
	enrollments.POST("", h.Enrollment.Create)
	enrollments.GET("", h.Enrollment.List)
	enrollments.DELETE("/:id", h.Enrollment.Delete)

	attendance := NewDomainGroup("attendance", "/attendance").Use(staffOnly...)
	attendance.POST("", h.Attendance.Mark)
	attendance.POST("/bulk", h.Attendance.Mark)
	attendance.GET("", h.Attendance.List)
	attendance.PUT("/:id", h.Attendance.Update)
	attendance.GET("/class/:classSectionId", h.Attendance.ClassRoster)
	attendance.GET("/history/:studentId", h.Attendance.History)
	attendance.GET("/student/:studentId", h.Attendance.History)
	attendance.GET("/stats/:studentId", h.Attendance.Stats)

	fees := NewDomainGroup("fees", "/fees").Use(staffOnly...)
	fees.POST("", h.Fee.Create)
	fees.GET("", h.Fee.List)
	fees.GET("/summary", h.Fee.Summary)
	fees.GET("/student/:studentId", h.Fee.ByStudent)
	fees.GET("/:id", h.Fee.Get)
	fees.PUT("/:id", h.Fee.Update)
	fees.DELETE("/:id", h.Fee.Delete)
	fees.POST("/:id/payment", h.Fee.RecordPayment)
	fees.PATCH("/:id/pay", h.Fee.Pay)

	marks := NewDomainGroup("marks", "/marks").Use(staffOnly...)
	marks.POST("", h.Mark.Upsert)
	marks.POST("/bulk", h.Mark.UpsertBulk)
	marks.GET("/student/:studentId", h.Mark.ByStudent)
	marks.GET("/student/:studentId/stats", h.Mark.StudentStats)
	marks.GET("/subject/:subjectId", h.Mark.BySubject)
	marks.GET("/class/:classSectionId", h.Mark.ByClass)
	marks.DELETE("/:id", h.Mark.Delete)

	dashboard := NewDomainGroup("dashboard", "/dashboard").Use(staffOnly...)
	dashboard.GET("/stats", h.Dashboard.Stats)

	audit := NewDomainGroup("audit", "/audit-logs").Use(g.protect(identity.SuperAdminOnly)...)
	audit.GET("", h.Audit.List)
	audit.GET("/:id", h.Audit.Get)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/ping", h.System.Ping)

	return []*DomainGroup{
		authGroup, students, teachers, classes, subjects, enrollments,
		attendance, fees, marks, dashboard, audit, system,
	}
}
