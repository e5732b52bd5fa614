package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the body of every non-validation failure
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationErrorBody carries one message per failing field
type ValidationErrorBody struct {
	Errors map[string]string `json:"errors"`
}

// JSON sends data as-is with the given status
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Error sends {"error": message}
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Error: message})
}

// ValidationError sends {"errors": {field: message}}
func ValidationError(c *gin.Context, code int, fields map[string]string) {
	c.JSON(code, ValidationErrorBody{Errors: fields})
}
