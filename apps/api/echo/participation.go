package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core/attendance"
)

type participationApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerParticipationAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate) {
	api := participationApi{svc: svc, validate: validate}

	pg := g.Group("/participations")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/stats", api.stats)

	// detail endpoints
	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/checkin", api.checkIn)
	dg.POST("/feedback", api.feedback)
}

// Handlers

func (api *participationApi) create(ctx echo.Context) error {
	var data attendance.NewParticipation
	if err := bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	p, err := api.svc.RegisterParticipation(ctx.Request().Context(), data.UserID, data.EventID)
	if err != nil {
		return errors.Wrap(err, "registering participation")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *participationApi) query(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to attendance.QueryFilter")
	}
	ps, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying participations")
	}
	return ctx.JSON(http.StatusOK, ps)
}

func (api *participationApi) stats(ctx echo.Context) error {
	eventID, err := requiredQueryParam(ctx, "event_id")
	if err != nil {
		return err
	}
	stats, err := api.svc.Stats(ctx.Request().Context(), eventID)
	if err != nil {
		return errors.Wrap(err, "getting participation stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *participationApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting participation")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *participationApi) checkIn(ctx echo.Context) error {
	if _, err := api.svc.CheckIn(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "checking in")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *participationApi) feedback(ctx echo.Context) error {
	var data attendance.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to attendance.NewFeedback")
	}
	if _, err := api.svc.AddFeedback(ctx.Request().Context(), ctx.Param("id"), data.Text); err != nil {
		return errors.Wrap(err, "adding feedback")
	}
	return ctx.NoContent(http.StatusNoContent)
}
