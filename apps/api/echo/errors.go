package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core"
)

var errInvalidInput = "invalid input"

type httpError struct {
	Kind   core.Kind         `json:"kind,omitempty"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusOf maps a domain error kind to its HTTP status.
func statusOf(kind core.Kind) int {
	switch kind {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindAlreadyExists:
		return http.StatusConflict
	case core.KindExpired:
		return http.StatusGone
	case core.KindInvalidField, core.KindInvalidDate, core.KindInvalidUserType, core.KindOperationNotAllowed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code = http.StatusInternalServerError
			body httpError
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			body = httpError{Kind: core.KindInvalidField, Error: errInvalidInput, Fields: make(map[string]string, len(origErr))}
			for _, vErr := range origErr {
				body.Fields[vErr.Field()] = vErr.Translate(translator)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			body = httpError{Kind: core.KindInvalidField, Error: origErr.Error()}
			if body.Error == "" {
				body.Error = errInvalidInput
			}
			if origErr.Fields != nil {
				body.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					body.Fields[fErr.Field] = fErr.Error
				}
			}
		case *core.Error:
			if !core.IsStorage(origErr) {
				code = statusOf(origErr.Kind)
				body = httpError{Kind: origErr.Kind, Error: origErr.Message}
				break
			}
			body.Error = serverError(logger, err, ctx)
		default: // any other error is a server error
			body.Error = serverError(logger, err, ctx)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// serverError logs err and returns the message shown to the client.
func serverError(logger core.Logger, err error, ctx echo.Context) string {
	msg := http.StatusText(http.StatusInternalServerError)
	if logger != nil {
		logger.Error(msg, errors.Wrap(err, ctx.Request().Method+" "+ctx.Path()))
	}
	if ctx.Echo().Debug {
		return err.Error()
	}
	return msg
}
