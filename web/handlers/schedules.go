package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/utils"
	"attendly.com/attendly/web/common"
)

type ScheduleHandler struct {
	DB *gorm.DB
}

type scheduleBody struct {
	Name           string  `json:"name" binding:"required,min=2,max=100"`
	WorkStartTime  string  `json:"work_start_time" binding:"required"`
	WorkEndTime    string  `json:"work_end_time" binding:"required"`
	LunchStartTime *string `json:"lunch_start_time"`
	LunchEndTime   *string `json:"lunch_end_time"`
}

// validate checks every clock string and that the lunch window comes as a
// pair or not at all.
func (b *scheduleBody) validate() string {
	if _, err := utils.ParseClock(b.WorkStartTime); err != nil {
		return "work_start_time must be HH:MM or HH:MM:SS"
	}
	if _, err := utils.ParseClock(b.WorkEndTime); err != nil {
		return "work_end_time must be HH:MM or HH:MM:SS"
	}
	if (b.LunchStartTime == nil) != (b.LunchEndTime == nil) {
		return "lunch_start_time and lunch_end_time must be set together"
	}
	if b.LunchStartTime != nil {
		if _, err := utils.ParseClock(*b.LunchStartTime); err != nil {
			return "lunch_start_time must be HH:MM or HH:MM:SS"
		}
		if _, err := utils.ParseClock(*b.LunchEndTime); err != nil {
			return "lunch_end_time must be HH:MM or HH:MM:SS"
		}
	}
	return ""
}

func (h *ScheduleHandler) List(c *gin.Context) {
	var schedules []core.WorkSchedule
	if err := h.DB.Order("id").Find(&schedules).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(schedules))
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var body scheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	if msg := body.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(msg))
		return
	}
	schedule := core.WorkSchedule{
		Name:           body.Name,
		WorkStartTime:  body.WorkStartTime,
		WorkEndTime:    body.WorkEndTime,
		LunchStartTime: body.LunchStartTime,
		LunchEndTime:   body.LunchEndTime,
	}
	if err := h.DB.Create(&schedule).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(schedule))
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body scheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	if msg := body.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(msg))
		return
	}

	var schedule core.WorkSchedule
	err := h.DB.First(&schedule, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Schedule not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	schedule.Name = body.Name
	schedule.WorkStartTime = body.WorkStartTime
	schedule.WorkEndTime = body.WorkEndTime
	schedule.LunchStartTime = body.LunchStartTime
	schedule.LunchEndTime = body.LunchEndTime
	if err := h.DB.Save(&schedule).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(schedule))
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var assigned int64
	if err := h.DB.Model(&core.Employee{}).Where("schedule_id = ?", id).Count(&assigned).Error; err != nil {
		respondError(c, err)
		return
	}
	if assigned > 0 {
		c.JSON(http.StatusConflict, common.NewErrorResponse("Schedule is still assigned to employees"))
		return
	}
	res := h.DB.Delete(&core.WorkSchedule{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Schedule not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": id}))
}
