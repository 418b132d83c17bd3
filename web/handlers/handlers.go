package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendly.com/attendly/core"
	"attendly.com/attendly/web/common"
)

// respondError maps a rejection to its HTTP status and message. Anything
// else is an internal failure: logged server-side, opaque to the caller.
func respondError(c *gin.Context, err error) {
	var rej *core.Rejection
	if errors.As(err, &rej) {
		c.JSON(rej.Status, common.NewErrorResponse(rej.Message))
		return
	}
	log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Server error"))
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id parameter"))
		return 0, false
	}
	return id, true
}
