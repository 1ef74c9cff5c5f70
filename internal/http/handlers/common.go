package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"swiftlink/internal/domain"
	"swiftlink/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload", err.Error())
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (domain.ID, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name, nil)
		return 0, false
	}
	return domain.ID(id), true
}

// caller returns the authenticated identity. Routes behind Authenticate
// always have one.
func caller(c *gin.Context) domain.RequestContext {
	rc, _ := middleware.GetRequestContext(c)
	rc.RequestID = middleware.GetRequestID(c)
	return rc
}

func sendPDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
