package middleware

import (
	"net/http"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func labelsSeen(t *testing.T, cfg ProfilingConfig, path, role string) map[string]string {
	t.Helper()

	seen := map[string]string{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(UserRoleKey, role)
		}
		c.Next()
	})
	r.Use(Profiling(cfg))
	handler := func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			seen[k] = v
			return true
		})
		c.Status(http.StatusOK)
	}
	r.GET("/students/:id", handler)
	r.GET("/health", handler)

	w := serve(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	return seen
}

func TestProfiling_Labels(t *testing.T) {
	seen := labelsSeen(t, DefaultProfilingConfig(), "/students/7", "STAFF")

	assert.Equal(t, map[string]string{
		"route":  "/students/:id",
		"method": "GET",
		"role":   "STAFF",
	}, seen)
}

func TestProfiling_AnonymousRole(t *testing.T) {
	seen := labelsSeen(t, DefaultProfilingConfig(), "/students/7", "")

	assert.Equal(t, "anonymous", seen["role"])
}

func TestProfiling_SkipPaths(t *testing.T) {
	assert.Empty(t, labelsSeen(t, DefaultProfilingConfig(), "/health", "ADMIN"))
}

func TestProfiling_Disabled(t *testing.T) {
	assert.Empty(t, labelsSeen(t, ProfilingConfig{Enabled: false}, "/students/7", "ADMIN"))
}

func TestHasAnyPrefix(t *testing.T) {
	assert.True(t, hasAnyPrefix("/swagger/index.html", []string{"/swagger"}))
	assert.False(t, hasAnyPrefix("/students", []string{"/swagger"}))
	assert.False(t, hasAnyPrefix("/students", nil))
}
