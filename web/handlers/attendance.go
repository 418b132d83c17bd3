package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attendly.com/attendly/attendance"
	"attendly.com/attendly/core"
	"attendly.com/attendly/security"
	"attendly.com/attendly/web/common"
	"attendly.com/attendly/web/middlewares"
)

// AttendanceHandler owns the scan endpoint and the employee-facing
// attendance reads.
type AttendanceHandler struct {
	DB       *gorm.DB
	Pipeline *security.Pipeline
	Recorder *attendance.Recorder
}

type scanBody struct {
	QRPayload      json.RawMessage     `json:"qr_payload" binding:"required"`
	Location       *security.GPSSample `json:"location"`
	FaceDescriptor []float64           `json:"face_descriptor"`
}

type qrPayload struct {
	BranchID int    `json:"branch_id"`
	Token    string `json:"token"`
}

// decodeQRPayload accepts the payload either as a JSON object or as the
// raw string a scanner library hands back.
func decodeQRPayload(raw json.RawMessage) (*qrPayload, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		raw = json.RawMessage(s)
	}
	var p qrPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.BranchID <= 0 || p.Token == "" {
		return nil, fmt.Errorf("missing branch_id or token")
	}
	return &p, nil
}

// Scan verifies one QR scan end to end and advances the day's record.
func (h *AttendanceHandler) Scan(c *gin.Context) {
	claims := middlewares.SessionClaims(c)

	var body scanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	payload, err := decodeQRPayload(body.QRPayload)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid QR payload"))
		return
	}

	// Toggles and thresholds are re-read on every scan so an operator
	// change applies immediately.
	raw, err := core.LoadSecuritySettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	settings := security.ParseSettings(raw)

	req := &security.ScanRequest{
		BranchID:       payload.BranchID,
		Token:          payload.Token,
		EmployeeID:     claims.UserID,
		ClientIP:       security.NormalizeIP(c.ClientIP()),
		Location:       body.Location,
		FaceDescriptor: body.FaceDescriptor,
	}
	if err := h.Pipeline.Run(c.Request.Context(), req, &settings); err != nil {
		respondError(c, err)
		return
	}

	emp, err := core.FindEmployeeByID(h.DB, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}

	globals, err := core.LoadSettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.Recorder.Record(c.Request.Context(), emp, payload.BranchID, time.Now(), globals)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"message": fmt.Sprintf("%s recorded at %s", strings.ReplaceAll(res.Field, "_", " "), res.Time),
		"scan":    res.Field,
		"time":    res.Time,
		"metrics": res.Metrics,
	}))
}

// MyAttendance lists the caller's records for one month, newest first.
func (h *AttendanceHandler) MyAttendance(c *gin.Context) {
	claims := middlewares.SessionClaims(c)
	now := time.Now()

	month := int(now.Month())
	year := now.Year()
	if v, err := strconv.Atoi(c.Query("month")); err == nil && v >= 1 && v <= 12 {
		month = v
	}
	if v, err := strconv.Atoi(c.Query("year")); err == nil && v > 2000 {
		year = v
	}

	var rows []core.Attendance
	err := h.DB.
		Where("employee_id = ? AND date LIKE ?", claims.UserID, fmt.Sprintf("%04d-%02d-%%", year, month)).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows))
}

// Today returns the caller's current-day record, or null before the first
// scan. The client uses it to label the next scan button.
func (h *AttendanceHandler) Today(c *gin.Context) {
	claims := middlewares.SessionClaims(c)
	date := time.Now().Format("2006-01-02")

	var rows []core.Attendance
	err := h.DB.
		Where("employee_id = ? AND date = ?", claims.UserID, date).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		respondError(c, err)
		return
	}

	var rec *core.Attendance
	if len(rows) > 0 {
		rec = &rows[0]
	}
	next, more := attendance.NextField(rec)
	payload := gin.H{"record": rec, "day_complete": !more}
	if more {
		payload["next_scan"] = next
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(payload))
}
