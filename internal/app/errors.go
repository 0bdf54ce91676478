package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/pkg"
)

// abortWithStatus ends the request with the JSON envelope every API
// response uses.
func abortWithStatus(c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, pkg.Response{
		Code:    code,
		Message: defaultStatusText(code),
	})
}

// noRouteHandler answers unknown paths.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithStatus(c, http.StatusNotFound)
	}
}

// noMethodHandler answers known paths called with an unsupported method.
func noMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithStatus(c, http.StatusMethodNotAllowed)
	}
}

// defaultStatusText returns a short lower-case label for common error codes.
func defaultStatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusMethodNotAllowed:
		return "method not allowed"
	case http.StatusRequestTimeout:
		return "request timeout"
	case http.StatusTooManyRequests:
		return "too many requests"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return "error"
	}
}
