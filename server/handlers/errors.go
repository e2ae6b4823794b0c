package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/server/dto"
)

// writeError writes an error response and records err on the context for
// the request logger.
func writeError(c *gin.Context, status int, code string, err error) {
	_ = c.Error(err)
	resp := dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    status,
	}
	var verr *palette.ValidationError
	if errors.As(err, &verr) {
		resp.Violations = verr.Violations
	}
	c.JSON(status, resp)
}

// writeBindError maps a request decoding failure: param type mismatches
// are unprocessable, anything else is a bad request.
func writeBindError(c *gin.Context, err error) {
	if errors.Is(err, palette.ErrInvalidParam) {
		writeError(c, http.StatusUnprocessableEntity, dto.CodeInvalidParam, err)
		return
	}
	writeError(c, http.StatusBadRequest, dto.CodeInvalidRequest, err)
}
