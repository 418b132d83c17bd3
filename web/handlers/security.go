package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/web/common"
)

// SecurityHandler owns the operator-facing verification controls: the
// toggle/threshold rows, the audit log reads, face template registration
// and the per-branch address allowlist.
type SecurityHandler struct {
	DB *gorm.DB
}

// allowedSecurityKeys guards the settings table against arbitrary rows.
var allowedSecurityKeys = map[string]bool{
	"ip_restriction_enabled":    true,
	"anti_gps_spoof_enabled":    true,
	"max_gps_accuracy":          true,
	"face_verification_enabled": true,
	"face_similarity_threshold": true,
}

func (h *SecurityHandler) GetSettings(c *gin.Context) {
	raw, err := core.LoadSecuritySettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(raw))
}

func (h *SecurityHandler) UpdateSettings(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	for key := range body {
		if !allowedSecurityKeys[key] {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("Unknown setting '%s'", key)))
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for key, value := range body {
			row := core.SecuritySetting{Key: key, Value: value}
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

	raw, err := core.LoadSecuritySettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(raw))
}

// ClientSettings tells the scanning client which optional capture steps to
// run. Thresholds stay server-side.
func (h *SecurityHandler) ClientSettings(c *gin.Context) {
	raw, err := core.LoadSecuritySettings(h.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"face_verification_enabled": raw["face_verification_enabled"] == "true",
		"anti_gps_spoof_enabled":    raw["anti_gps_spoof_enabled"] == "true",
	}))
}

func logLimit(c *gin.Context) int {
	limit := 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}
	return limit
}

func (h *SecurityHandler) GpsLogs(c *gin.Context) {
	q := h.DB.Model(&core.GpsSecurityLog{}).Order("created_at DESC").Limit(logLimit(c))
	if v, err := strconv.Atoi(c.Query("employee_id")); err == nil {
		q = q.Where("employee_id = ?", v)
	}
	if v := c.Query("risk_level"); v != "" {
		q = q.Where("risk_level = ?", v)
	}
	var rows []core.GpsSecurityLog
	if err := q.Find(&rows).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows))
}

func (h *SecurityHandler) FaceLogs(c *gin.Context) {
	q := h.DB.Model(&core.FaceVerificationLog{}).Order("created_at DESC").Limit(logLimit(c))
	if v, err := strconv.Atoi(c.Query("employee_id")); err == nil {
		q = q.Where("employee_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	var rows []core.FaceVerificationLog
	if err := q.Find(&rows).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows))
}

type faceRegisterBody struct {
	Descriptor []float64 `json:"descriptor" binding:"required,min=64"`
}

// RegisterFace stores an employee's reference descriptor. Registration is
// the only writer of the template; scans only read it.
func (h *SecurityHandler) RegisterFace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body faceRegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	emp, err := core.FindEmployeeByID(h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}
	if err := emp.SetFaceTemplate(body.Descriptor); err != nil {
		respondError(c, err)
		return
	}
	if err := h.DB.Model(emp).Select("face_embedding", "face_registered").Updates(emp).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"face_registered": true}))
}

func (h *SecurityHandler) RemoveFace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res := h.DB.Model(&core.Employee{}).Where("id = ?", id).
		Updates(map[string]interface{}{"face_embedding": nil, "face_registered": false})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"face_registered": false}))
}

func (h *SecurityHandler) ListAllowlist(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var entries []core.BranchAllowlistEntry
	if err := h.DB.Where("branch_id = ?", id).Order("id").Find(&entries).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entries))
}

type allowlistBody struct {
	Address string `json:"ip_address_or_range" binding:"required"`
}

func validAddress(s string) bool {
	if net.ParseIP(s) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func (h *SecurityHandler) AddAllowlistEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body allowlistBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	if !validAddress(body.Address) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Must be a valid IP address or CIDR range"))
		return
	}
	branch, err := core.FindBranchByID(h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if branch == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Branch not found"))
		return
	}
	entry := core.BranchAllowlistEntry{BranchID: id, CIDR: body.Address}
	if err := h.DB.Create(&entry).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(entry))
}

func (h *SecurityHandler) DeleteAllowlistEntry(c *gin.Context) {
	branchID, ok := idParam(c)
	if !ok {
		return
	}
	entryID, err := strconv.Atoi(c.Param("entryId"))
	if err != nil || entryID <= 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id parameter"))
		return
	}
	res := h.DB.Where("branch_id = ?", branchID).Delete(&core.BranchAllowlistEntry{}, entryID)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Allowlist entry not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": entryID}))
}
