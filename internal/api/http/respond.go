package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	catalogdomain "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	profiledomain "github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/upload"
)

// Error writes err as {"ok": false, "error": ...} with the matching status
// and records it on the gin context for the request log.
func Error(c *gin.Context, err error) {
	status, body := mapError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// BindError answers a failed ShouldBind call.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		Error(c, &catalogdomain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
		})
		return
	}
	Error(c, fmt.Errorf("%w: %v", catalogdomain.ErrInvalidInput, err))
}

func mapError(err error) (int, gin.H) {
	var verr *catalogdomain.ValidationError
	var uerr *upload.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"ok": false, "error": verr.Error(), "field": verr.Field}
	case errors.As(err, &uerr):
		return http.StatusBadRequest, gin.H{"ok": false, "error": uerr.Description, "title": uerr.Title}
	case errors.Is(err, catalogdomain.ErrNotFound), errors.Is(err, profiledomain.ErrNotFound):
		return http.StatusNotFound, gin.H{"ok": false, "error": "resource not found"}
	case errors.Is(err, catalogdomain.ErrConflict), errors.Is(err, profiledomain.ErrConflict):
		return http.StatusConflict, gin.H{"ok": false, "error": "resource conflict"}
	case errors.Is(err, catalogdomain.ErrInvalidInput), errors.Is(err, profiledomain.ErrInvalidInput),
		errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF):
		return http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"}
	default:
		return http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"}
	}
}
