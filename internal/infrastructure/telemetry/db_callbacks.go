package telemetry

import (
	"gorm.io/gorm"
)

// callbackChain abstracts over the processor types returned by db.Callback()
type callbackChain interface {
	Register(name string, fn func(*gorm.DB)) error
}

// aroundEach registers before and after hooks on every statement kind.
// after receives the operation name (INSERT, SELECT, ...).
func aroundEach(db *gorm.DB, prefix string, before func(*gorm.DB), after func(db *gorm.DB, operation string)) error {
	cb := db.Callback()
	hooks := []struct {
		kind      string
		operation string
		before    callbackChain
		after     callbackChain
	}{
		{"create", "INSERT", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", "SELECT", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", "UPDATE", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", "", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", "", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if before != nil {
			if err := h.before.Register(prefix+":before_"+h.kind, before); err != nil {
				return err
			}
		}
		operation := h.operation
		if err := h.after.Register(prefix+":after_"+h.kind, func(db *gorm.DB) {
			op := operation
			if op == "" {
				op = detectOperation(db.Statement.SQL.String())
			}
			after(db, op)
		}); err != nil {
			return err
		}
	}
	return nil
}
