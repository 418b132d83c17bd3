package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/web/common"
	"attendly.com/attendly/web/middlewares"
)

type EmployeeHandler struct {
	DB *gorm.DB
}

type createEmployeeBody struct {
	Name          string  `json:"name" binding:"required,min=2,max=100"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	Role          string  `json:"role" binding:"required,oneof=admin employee"`
	BranchID      *int    `json:"branch_id"`
	ScheduleID    *int    `json:"schedule_id"`
	MonthlySalary float64 `json:"monthly_salary"`
}

type updateEmployeeBody struct {
	Name          string  `json:"name" binding:"required,min=2,max=100"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"omitempty,min=8"`
	Role          string  `json:"role" binding:"required,oneof=admin employee"`
	BranchID      *int    `json:"branch_id"`
	ScheduleID    *int    `json:"schedule_id"`
	MonthlySalary float64 `json:"monthly_salary"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	var employees []core.Employee
	err := h.DB.Preload("Branch").Preload("Schedule").Order("id").Find(&employees).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(employees))
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var body createEmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	// every non-admin needs a schedule before their first scan can count
	if body.Role == core.RoleEmployee && body.ScheduleID == nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Employees must be assigned a work schedule"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}
	emp := core.Employee{
		Name:          body.Name,
		Email:         body.Email,
		Password:      string(hash),
		Role:          body.Role,
		BranchID:      body.BranchID,
		ScheduleID:    body.ScheduleID,
		MonthlySalary: body.MonthlySalary,
	}
	if err := h.DB.Create(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, common.NewErrorResponse("An account with that email already exists"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(emp))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body updateEmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}
	if body.Role == core.RoleEmployee && body.ScheduleID == nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Employees must be assigned a work schedule"))
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

	emp.Name = body.Name
	emp.Email = body.Email
	emp.Role = body.Role
	emp.BranchID = body.BranchID
	emp.ScheduleID = body.ScheduleID
	emp.MonthlySalary = body.MonthlySalary
	if body.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, err)
			return
		}
		emp.Password = string(hash)
	}

	if err := h.DB.Save(emp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, common.NewErrorResponse("An account with that email already exists"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(emp))
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if claims := middlewares.SessionClaims(c); claims != nil && claims.UserID == id {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("You cannot delete your own account"))
		return
	}
	res := h.DB.Delete(&core.Employee{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": id}))
}
