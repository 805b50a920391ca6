package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"
)

// respondError renders err as {success:false, message, errors?} with the status of its kind.
// Unclassified errors are treated as internal.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperr.As(err)

	body := gin.H{"success": false, "message": appErr.Message}
	if len(appErr.Errors) > 0 {
		body["errors"] = appErr.Errors
	}

	entry := h.logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"kind":   appErr.Kind.String(),
	})
	switch appErr.Kind {
	case apperr.KindInternal:
		entry.WithError(err).Error("request failed")
		if h.development && appErr.Err != nil {
			body["error"] = appErr.Err.Error()
		}
	case apperr.KindAuthentication, apperr.KindAuthorization:
		entry.Warn(appErr.Message)
	}

	c.AbortWithStatusJSON(appErr.Kind.Status(), body)
}

func (h *Handler) handlePanic(c *gin.Context, recovered any) {
	if c.Writer.Written() {
		h.logger.WithField("panic", recovered).Error("panic after response was written")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	h.respondError(c, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
}
