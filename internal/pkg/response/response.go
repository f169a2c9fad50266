package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Status  int      `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Path    string   `json:"path"`
	Details []string `json:"details,omitempty"`
}

func Error(c *gin.Context, status int, code, message string, details ...string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Status:  status,
		Code:    code,
		Message: message,
		Path:    c.Request.Method + " " + c.FullPath(),
		Details: details,
	})
}

// Localized writes an error whose message is the translation of id for the
// request's Accept-Language.
func Localized(c *gin.Context, t *i18n.Translator, status int, code, id string, data map[string]any) {
	Error(c, status, code, Message(c, t, id, data))
}

func Message(c *gin.Context, t *i18n.Translator, id string, data map[string]any) string {
	return t.T(c.GetHeader("Accept-Language"), id, data)
}

// Upstream reports a collaborator failure. The collaborator's own message is
// passed through verbatim; otherwise the fallback message id is used.
func Upstream(c *gin.Context, t *i18n.Translator, err error, fallbackID string) {
	status := http.StatusBadGateway
	code := "UPSTREAM_ERROR"
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		if apiErr.Code != "" {
			code = apiErr.Code
		}
	}
	if msg := httpclient.MessageOf(err); msg != "" {
		Error(c, status, code, msg)
		return
	}
	Localized(c, t, status, code, fallbackID, nil)
}
