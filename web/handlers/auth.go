package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"attendly.com/attendly/core"
	"attendly.com/attendly/security"
	"attendly.com/attendly/web/common"
	"attendly.com/attendly/web/middlewares"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	TokenTTL  time.Duration
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindingError(c, err)
		return
	}

	var emp core.Employee
	err := h.DB.Where("email = ?", body.Email).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid email or password"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(emp.Password), []byte(body.Password)) != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid email or password"))
		return
	}

	token, err := security.CreateSessionToken(&emp, h.JWTSecret, h.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"token": token,
		"user":  emp,
	}))
}

// Me returns the employee behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middlewares.SessionClaims(c)
	emp, err := core.FindEmployeeByID(h.DB, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(emp))
}
