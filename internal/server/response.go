package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/form"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError   `json:"error"`
	Form  form.State `json:"form,omitempty"`
}

// classify maps an error to its HTTP status and code.
func classify(err error) (int, APIError) {
	api := APIError{Message: err.Error()}
	var (
		ve *leadmagnet.ValidationError
		pe *leadmagnet.AutofillParseError
		ne *leadmagnet.NetworkError
		re *leadmagnet.RenderError
	)
	switch {
	case errors.As(err, &ve):
		api.Code, api.Missing = "validation_failed", ve.Missing
		return http.StatusUnprocessableEntity, api
	case errors.Is(err, leadmagnet.ErrMissingContext):
		api.Code = "missing_context"
		return http.StatusUnprocessableEntity, api
	case errors.As(err, &pe):
		api.Code = "autofill_parse"
		return http.StatusUnprocessableEntity, api
	case errors.As(err, &ne):
		api.Code = "upstream_failed"
		return http.StatusBadGateway, api
	case errors.Is(err, leadmagnet.ErrNoUsesLeft):
		api.Code = "no_uses_left"
		return http.StatusPaymentRequired, api
	case errors.Is(err, leadmagnet.ErrUnknownType):
		api.Code = "unknown_type"
		return http.StatusNotFound, api
	case errors.Is(err, leadmagnet.ErrUnsupportedFormat):
		api.Code = "unsupported_format"
		return http.StatusBadRequest, api
	case errors.Is(err, leadmagnet.ErrListBounds):
		api.Code = "list_bounds"
		return http.StatusBadRequest, api
	case errors.Is(err, leadmagnet.ErrNotConfigured):
		api.Code = "not_configured"
		return http.StatusServiceUnavailable, api
	case errors.As(err, &re):
		api.Code = "render_failed"
		return http.StatusInternalServerError, api
	}
	api.Code = "internal"
	return http.StatusInternalServerError, api
}

func respondError(c *gin.Context, err error) {
	respondErrorWithForm(c, err, nil)
}

// respondErrorWithForm echoes the unchanged form next to the error.
func respondErrorWithForm(c *gin.Context, err error, s form.State) {
	_ = c.Error(err)
	status, api := classify(err)
	c.JSON(status, ErrorEnvelope{Error: api, Form: s})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: err.Error(), Code: "bad_request"}})
}
