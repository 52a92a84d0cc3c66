package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response structure shared by every endpoint.
type Envelope struct {
	Status      string `json:"status"`      // success | error
	Code        int    `json:"code"`        // mirrors the HTTP status
	Description string `json:"description"` // human readable
	Data        any    `json:"data"`        // object | array | null
}

func Success(c *gin.Context, httpCode int, description string, data any) {
	c.JSON(httpCode, Envelope{
		Status:      "success",
		Code:        httpCode,
		Description: description,
		Data:        data,
	})
}

func OK(c *gin.Context, data any) {
	Success(c, http.StatusOK, "ok", data)
}

func Created(c *gin.Context, data any) {
	Success(c, http.StatusCreated, "created", data)
}

func Error(c *gin.Context, httpCode int, description string) {
	c.JSON(httpCode, Envelope{
		Status:      "error",
		Code:        httpCode,
		Description: description,
	})
}

// Abort writes the error envelope and stops the middleware chain.
func Abort(c *gin.Context, httpCode int, description string) {
	c.AbortWithStatusJSON(httpCode, Envelope{
		Status:      "error",
		Code:        httpCode,
		Description: description,
	})
}
