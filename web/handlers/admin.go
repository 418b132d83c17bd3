package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/web/common"
)

// AdminHandler serves the dashboard summary and the workday settings rows.
type AdminHandler struct {
	DB *gorm.DB
}

// Dashboard is the at-a-glance view: headcounts plus today's attendance
// broken down by status. Employees with no record today count as absent.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var employees, branches int64
	if err := h.DB.Model(&core.Employee{}).Where("role = ?", core.RoleEmployee).Count(&employees).Error; err != nil {
		respondError(c, err)
		return
	}
	if err := h.DB.Model(&core.Branch{}).Count(&branches).Error; err != nil {
		respondError(c, err)
		return
	}

	// present counts late arrivals too; absent is whoever has no
	// non-absent record today
	today := time.Now().Format("2006-01-02")
	var present, late int64
	err := h.DB.Model(&core.Attendance{}).
		Where("date = ? AND status != ?", today, core.StatusAbsent).
		Count(&present).Error
	if err != nil {
		respondError(c, err)
		return
	}
	err = h.DB.Model(&core.Attendance{}).
		Where("date = ? AND status = ?", today, core.StatusLate).
		Count(&late).Error
	if err != nil {
		respondError(c, err)
		return
	}
	absent := employees - present
	if absent < 0 {
		absent = 0
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"date":            today,
		"total_employees": employees,
		"total_branches":  branches,
		"present":         present,
		"late":            late,
		"absent":          absent,
	}))
}

// allowedWorkdayKeys guards the workday settings table the same way the
// security settings are guarded.
var allowedWorkdayKeys = map[string]bool{
	"work_start_time": true,
	"work_end_time":   true,
	"grace_period":    true,
	"break_duration":  true,
}

func (h *AdminHandler) GetWorkdaySettings(c *gin.Context) {
	raw, err := core.LoadSettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(raw))
}

func (h *AdminHandler) UpdateWorkdaySettings(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	for key, value := range body {
		if !allowedWorkdayKeys[key] {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("Unknown setting '%s'", key)))
			return
		}
		if key == "grace_period" || key == "break_duration" {
			if v, err := strconv.Atoi(value); err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("Setting '%s' must be a non-negative integer", key)))
				return
			}
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for key, value := range body {
			row := core.Setting{ConfigKey: key, ConfigValue: value}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	raw, err := core.LoadSettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(raw))
}
