package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/scheduleapi"
	web "timekeep.com/timekeep/web/common"
)

// Executor runs a unit of work against a tenant schema. Satisfied by
// core.DatabaseManager in production and by a sqlite-backed stub in tests.
type Executor interface {
	Exec(ctx context.Context, schema string, fn func(db *gorm.DB) error) error
}

// ProviderFactory builds the schedule source for a request. Deployments
// pointing at the hosted rostering service return a shared HTTP client;
// local-replica deployments wrap the request's db handle.
type ProviderFactory func(db *gorm.DB) scheduleapi.Provider

type Endpoint struct {
	dm        Executor
	policy    core.Policy
	schedules ProviderFactory
	events    core.Publisher
}

func Register(r *gin.RouterGroup, dm Executor, policy core.Policy, schedules ProviderFactory, events core.Publisher) {
	ep := &Endpoint{dm: dm, policy: policy, schedules: schedules, events: events}

	r.POST("/sessions", ep.Start)
	r.POST("/sessions/manual", ep.CreateManual)
	r.PUT("/sessions/active", ep.Stop)
	r.PUT("/sessions/:id/break", ep.UpdateBreak)
	r.POST("/sessions/pause", ep.Pause)
	r.POST("/sessions/resume", ep.Resume)
	r.PUT("/sessions/:id/approve", ep.Approve)
	r.PUT("/sessions/:id/status", ep.SetStatus)
	r.GET("/sessions", ep.List)
	r.GET("/sessions/active", ep.GetActive)
	r.GET("/sessions/export", ep.Export)
}

func (ep *Endpoint) manager(db *gorm.DB) *core.Manager {
	return core.NewManager(db, ep.schedules(db), ep.policy, ep.events)
}

func GetHostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func (ep *Endpoint) exec(c *gin.Context, fn func(db *gorm.DB) error) error {
	return ep.dm.Exec(c.Request.Context(), GetHostname(c.Request.Host), fn)
}

// reviewer pulls the acting admin's name out of the JWT claims.
func reviewer(c *gin.Context) string {
	claims, ok := c.Get("claims")
	if !ok {
		return ""
	}
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if name, ok := mapClaims["unique_name"].(string); ok {
		return name
	}
	return ""
}

// respondError maps domain failures onto the HTTP surface. Business-rule
// errors are never 500s.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, scheduleapi.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrConflict),
		errors.Is(err, core.ErrNotPending),
		errors.Is(err, core.ErrStaleSession):
		status = http.StatusConflict
	case errors.Is(err, core.ErrNotAWorkingDay),
		errors.Is(err, core.ErrOutsideWindow),
		errors.Is(err, core.ErrInvalidTime),
		errors.Is(err, core.ErrInvalidBreak),
		errors.Is(err, core.ErrAlreadyClosed),
		errors.Is(err, core.ErrInvalidStatus):
		status = http.StatusBadRequest
	case scheduleapi.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, web.NewErrorResponse(err.Error()))
}
