package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/infrastructure/devops"
	"attendly.com/attendly/infrastructure/filesystem"
	"attendly.com/attendly/web/common"
)

// ReportHandler serves the admin attendance report, as JSON and as an
// XLSX download with optional S3 archival.
type ReportHandler struct {
	DB      *gorm.DB
	Archive devops.ReportArchiveConfig
}

// ReportRow is one attendance record joined with the names an admin reads.
type ReportRow struct {
	Date            string  `json:"date"`
	EmployeeID      int     `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	BranchName      string  `json:"branch_name"`
	CheckIn         *string `json:"check_in"`
	BreakOut        *string `json:"break_out"`
	BreakIn         *string `json:"break_in"`
	CheckOut        *string `json:"check_out"`
	TotalHours      float64 `json:"total_hours"`
	LateMinutes     int     `json:"late_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	Status          string  `json:"status"`
}

func (h *ReportHandler) query(c *gin.Context) *gorm.DB {
	q := h.DB.Model(&core.Attendance{}).
		Select("attendance.date, attendance.employee_id, employees.name AS employee_name, branches.name AS branch_name, " +
			"attendance.check_in, attendance.break_out, attendance.break_in, attendance.check_out, " +
			"attendance.total_hours, attendance.late_minutes, attendance.overtime_minutes, attendance.status").
		Joins("JOIN employees ON employees.id = attendance.employee_id").
		Joins("JOIN branches ON branches.id = attendance.branch_id").
		Order("attendance.date DESC, employees.name")

	if v, err := strconv.Atoi(c.Query("branch_id")); err == nil {
		q = q.Where("attendance.branch_id = ?", v)
	}
	if v, err := strconv.Atoi(c.Query("employee_id")); err == nil {
		q = q.Where("attendance.employee_id = ?", v)
	}
	if v := c.Query("date_from"); v != "" {
		q = q.Where("attendance.date >= ?", v)
	}
	if v := c.Query("date_to"); v != "" {
		q = q.Where("attendance.date <= ?", v)
	}
	return q
}

func (h *ReportHandler) Report(c *gin.Context) {
	var rows []ReportRow
	if err := h.query(c).Scan(&rows).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows))
}

var reportHeaders = []string{
	"Date", "Employee", "Branch",
	"Check In", "Break Out", "Break In", "Check Out",
	"Total Hours", "Late (min)", "Overtime (min)", "Status",
}

// Export streams the filtered report as an XLSX workbook. When an archive
// bucket is configured a copy lands there as well; the archive write is
// best-effort and never fails the download.
func (h *ReportHandler) Export(c *gin.Context) {
	var rows []ReportRow
	if err := h.query(c).Scan(&rows).Error; err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	for r, row := range rows {
		values := []interface{}{
			row.Date, row.EmployeeName, row.BranchName,
			deref(row.CheckIn), deref(row.BreakOut), deref(row.BreakIn), deref(row.CheckOut),
			row.TotalHours, row.LateMinutes, row.OvertimeMinutes, row.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-report-%s.xlsx", time.Now().Format("20060102-150405"))
	if h.Archive.Bucket != "" {
		key := h.Archive.Prefix + filename
		if err := filesystem.WriteFile(c.Request.Context(), h.Archive.Bucket, key,
			bytes.NewReader(buf.Bytes()),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
			// archive is a convenience copy; the admin still gets the file
			log.Printf("report archive upload failed: %v", err)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
