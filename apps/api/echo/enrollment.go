package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core/enrollment"
)

type enrollmentApi struct {
	svc      *enrollment.Service
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, svc *enrollment.Service, validate *validator.Validate) {
	api := enrollmentApi{svc: svc, validate: validate}

	eg := g.Group("/enrollments")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.DELETE("/:id", api.cancel)
}

// Handlers

func (api *enrollmentApi) create(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	enr, err := api.svc.Enroll(ctx.Request().Context(), data.UserID, data.EventID)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	var filter enrollment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to enrollment.QueryFilter")
	}
	enrs, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	enr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) cancel(ctx echo.Context) error {
	if _, err := api.svc.Cancel(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "cancelling enrollment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
