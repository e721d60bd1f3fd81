// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from
// its entity with ToDomain / FromDomain.
//
// Files are grouped by bounded context:
//   - identity.go: users
//   - academic.go: students, teachers, class sections, subjects, enrollments
//   - attendance.go, finance.go, assessment.go, audit.go
package models
