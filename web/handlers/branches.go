package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/security"
	"attendly.com/attendly/web/common"
)

type BranchHandler struct {
	DB *gorm.DB
}

type branchBody struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Location string `json:"location" binding:"required,max=255"`
}

func (h *BranchHandler) List(c *gin.Context) {
	var branches []core.Branch
	if err := h.DB.Order("id").Find(&branches).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(branches))
}

func (h *BranchHandler) Create(c *gin.Context) {
	var body branchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	branch := core.Branch{
		Name:     body.Name,
		Location: body.Location,
		QRSecret: uuid.NewString(),
	}
	if err := h.DB.Create(&branch).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(branch))
}

func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body branchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
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
	branch.Name = body.Name
	branch.Location = body.Location
	if err := h.DB.Save(branch).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(branch))
}

func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var assigned int64
	if err := h.DB.Model(&core.Employee{}).Where("branch_id = ?", id).Count(&assigned).Error; err != nil {
		respondError(c, err)
		return
	}
	if assigned > 0 {
		c.JSON(http.StatusConflict, common.NewErrorResponse("Branch still has employees assigned"))
		return
	}
	res := h.DB.Delete(&core.Branch{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Branch not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": id}))
}

// RotateSecret replaces the branch signing secret, invalidating every QR
// code minted with the old one from the next day boundary onward.
func (h *BranchHandler) RotateSecret(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
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
	branch.QRSecret = uuid.NewString()
	if err := h.DB.Save(branch).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"rotated": id}))
}

// QRCode mints today's scan payload for the branch kiosk display.
func (h *BranchHandler) QRCode(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
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

	now := time.Now()
	token := security.GenerateDailyToken(branch.ID, branch.QRSecret, now)
	payload, _ := json.Marshal(gin.H{"branch_id": branch.ID, "token": token})

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"branch_id":  branch.ID,
		"token":      token,
		"qr_payload": string(payload),
		"valid_for":  now.Format("2006-01-02"),
	}))
}
