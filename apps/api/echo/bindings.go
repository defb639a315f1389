package echoapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core"
)

// bindAndValidate binds the request (path, query then body) into data and validates it.
func bindAndValidate(ctx echo.Context, validate *validator.Validate, data interface{}) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrapf(err, "binding to %T", data)
	}
	if err := validate.Struct(data); err != nil {
		return err
	}
	return nil
}

// requiredQueryParam returns the trimmed value of a mandatory query parameter.
func requiredQueryParam(ctx echo.Context, name string) (string, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: name, Error: "this field is required"})
	}
	return val, nil
}

func intQueryParam(ctx echo.Context, name string) (int, error) {
	val, err := requiredQueryParam(ctx, name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return i, nil
}

type countResponse struct {
	Count int `json:"count"`
}
