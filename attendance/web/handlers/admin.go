package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/model"
	web "timekeep.com/timekeep/web/common"
)

func (ep *Endpoint) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid id"))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).Approve(c.Request.Context(), id, reviewer(c))
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}

type SetStatusDTO struct {
	Status  string `json:"status" binding:"required"`
	Remarks string `json:"remarks,omitempty"`
}

func (ep *Endpoint) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid id"))
		return
	}

	var dto SetStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).SetStatus(c.Request.Context(), id, dto.Status, reviewer(c), dto.Remarks)
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}

// List serves both the employee history view (?employeeId=) and the admin
// dashboards (?status=). Results are newest first.
func (ep *Endpoint) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid limit"))
			return
		}
		limit = parsed
	}

	status := c.Query("status")
	if status != "" && !model.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid status value"))
		return
	}

	var employeeID uint64
	if raw := c.Query("employeeId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid employeeId"))
			return
		}
		employeeID = parsed
	}

	var sessions []model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		store := ep.manager(db).Store()
		var err error
		switch {
		case employeeID != 0:
			sessions, err = store.ByEmployee(c.Request.Context(), uint(employeeID), limit)
		case status != "":
			sessions, err = store.ByStatus(c.Request.Context(), status, limit)
		default:
			sessions, err = store.All(c.Request.Context(), limit)
		}
		return err
	}); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSearchResponse(sessions, int64(len(sessions))))
}
