package pkg

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
)

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid "+name+": "+raw, nil)
	}
	return uint(id), nil
}
