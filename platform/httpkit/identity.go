// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
)

// Operator returns the authenticated operator name set by OperatorRequired,
// or an empty string on public routes.
func Operator(c *gin.Context) string {
	value, ok := c.Get(ContextOperatorKey)
	if !ok {
		return ""
	}
	operator, _ := value.(string)
	return operator
}

// RequestIDFrom returns the request ID assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	value, ok := c.Get(ContextRequestIDKey)
	if !ok {
		return ""
	}
	requestID, _ := value.(string)
	return requestID
}
