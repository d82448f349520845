package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/attendance/model"
	"timekeep.com/timekeep/utils"
	web "timekeep.com/timekeep/web/common"
)

type StartSessionDTO struct {
	EmployeeID uint   `json:"employeeId" binding:"required"`
	Username   string `json:"employeeUsername" binding:"required"`
	TimeIn     string `json:"timeIn,omitempty"`
	Label      string `json:"label,omitempty"`
}

// Start records a live time-in. When timeIn is omitted the server clock is
// used; an explicit value may not be in the future.
func (ep *Endpoint) Start(c *gin.Context) {
	var dto StartSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	timeIn := time.Now()
	if dto.TimeIn != "" {
		parsed, err := utils.ParseISOTime(dto.TimeIn)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid timeIn"))
			return
		}
		if parsed.After(time.Now()) {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("timeIn cannot be in the future"))
			return
		}
		timeIn = *parsed
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).Start(c.Request.Context(), core.StartParams{
			EmployeeID: dto.EmployeeID,
			Username:   dto.Username,
			TimeIn:     timeIn,
			Label:      dto.Label,
		})
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, web.NewSuccessResponse(session))
}

type ManualSessionDTO struct {
	EmployeeID uint   `json:"employeeId" binding:"required"`
	Username   string `json:"employeeUsername" binding:"required"`
	TimeIn     string `json:"timeIn" binding:"required"`
	TimeOut    string `json:"timeOut" binding:"required"`
	Label      string `json:"label,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
}

// CreateManual records an after-the-fact entry; it lands directly in
// pending review.
func (ep *Endpoint) CreateManual(c *gin.Context) {
	var dto ManualSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	timeIn, err := utils.ParseISOTime(dto.TimeIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid timeIn"))
		return
	}
	timeOut, err := utils.ParseISOTime(dto.TimeOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid timeOut"))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).CreateManual(c.Request.Context(), core.ManualParams{
			EmployeeID: dto.EmployeeID,
			Username:   dto.Username,
			TimeIn:     *timeIn,
			TimeOut:    *timeOut,
			Label:      dto.Label,
			Remarks:    dto.Remarks,
		})
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, web.NewSuccessResponse(session))
}

// GetActive returns the employee's open session, paused included. The
// tablet UI polls this to decide which controls to show.
func (ep *Endpoint) GetActive(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Query("employeeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid employeeId"))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).Store().FindOpen(c.Request.Context(), uint(employeeID))
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}

type StopSessionDTO struct {
	EmployeeID uint   `json:"employeeId" binding:"required"`
	TimeOut    string `json:"timeOut,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
}

// Stop closes the employee's active session and moves it to pending review.
func (ep *Endpoint) Stop(c *gin.Context) {
	var dto StopSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	stopTime := time.Now()
	if dto.TimeOut != "" {
		parsed, err := utils.ParseISOTime(dto.TimeOut)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid timeOut"))
			return
		}
		stopTime = *parsed
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).Stop(c.Request.Context(), dto.EmployeeID, stopTime, dto.Remarks)
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}

type UpdateBreakDTO struct {
	BreakStart string `json:"breakStart" binding:"required"`
	BreakEnd   string `json:"breakEnd" binding:"required"`
}

func (ep *Endpoint) UpdateBreak(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid id"))
		return
	}

	var dto UpdateBreakDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	breakStart, err := utils.ParseISOTime(dto.BreakStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid breakStart"))
		return
	}
	breakEnd, err := utils.ParseISOTime(dto.BreakEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid breakEnd"))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).UpdateBreak(c.Request.Context(), id, *breakStart, *breakEnd)
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}

type PauseSessionDTO struct {
	SessionID string `json:"sessionId" binding:"required"`
	PauseTime string `json:"pauseTime" binding:"required"`
}

func (ep *Endpoint) Pause(c *gin.Context) {
	var dto PauseSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	id, err := uuid.Parse(dto.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid sessionId"))
		return
	}
	pauseTime, err := utils.ParseISOTime(dto.PauseTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid pauseTime"))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).Pause(c.Request.Context(), id, *pauseTime)
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}

type ResumeSessionDTO struct {
	SessionID  string `json:"sessionId" binding:"required"`
	ResumeTime string `json:"resumeTime" binding:"required"`
}

func (ep *Endpoint) Resume(c *gin.Context) {
	var dto ResumeSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	id, err := uuid.Parse(dto.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid sessionId"))
		return
	}
	resumeTime, err := utils.ParseISOTime(dto.ResumeTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid resumeTime"))
		return
	}

	var session *model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		var err error
		session, err = ep.manager(db).Resume(c.Request.Context(), id, *resumeTime)
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(session))
}
