package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	ierr "github.com/subledger/subledger/internal/errors"
)

// parseIDParam extracts a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ierr.NewError("invalid " + name + " parameter").
			WithHint("The " + name + " must be a positive integer").
			WithReportableDetails(map[string]any{name: raw}).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}
