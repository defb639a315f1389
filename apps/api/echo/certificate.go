package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core/certificate"
)

type certificateApi struct {
	svc      *certificate.Service
	validate *validator.Validate
}

func registerCertificateAPI(g *echo.Group, svc *certificate.Service, validate *validator.Validate) {
	api := certificateApi{svc: svc, validate: validate}

	cg := g.Group("/certificates")
	cg.POST("", api.issue)
	cg.GET("", api.query)
	cg.GET("/count", api.count)
	cg.GET("/validate/:code", api.validateCode)
}

// Handlers

func (api *certificateApi) issue(ctx echo.Context) error {
	var data certificate.NewCertificate
	if err := bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	cert, err := api.svc.Issue(ctx.Request().Context(), data.UserID, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "issuing certificate")
	}
	return ctx.JSON(http.StatusOK, cert)
}

func (api *certificateApi) query(ctx echo.Context) error {
	var filter certificate.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to certificate.QueryFilter")
	}
	certs, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying certificates")
	}
	return ctx.JSON(http.StatusOK, certs)
}

func (api *certificateApi) count(ctx echo.Context) error {
	var filter certificate.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to certificate.QueryFilter")
	}
	count, err := api.svc.Count(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "counting certificates")
	}
	return ctx.JSON(http.StatusOK, countResponse{Count: count})
}

func (api *certificateApi) validateCode(ctx echo.Context) error {
	v, err := api.svc.Validate(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		return errors.Wrap(err, "validating certificate")
	}
	return ctx.JSON(http.StatusOK, v)
}
