package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core/evaluation"
)

type evaluationApi struct {
	svc      *evaluation.Service
	validate *validator.Validate
}

type ratingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

func registerEvaluationAPI(g *echo.Group, svc *evaluation.Service, validate *validator.Validate) {
	api := evaluationApi{svc: svc, validate: validate}

	eg := g.Group("/evaluations")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/average", api.average)
	eg.GET("/count", api.countByRating)
}

// Handlers

func (api *evaluationApi) create(ctx echo.Context) error {
	var data evaluation.NewEvaluation
	if err := bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	ev, err := api.svc.CreateFeedback(ctx.Request().Context(), data.UserID, data.EventID, data.Rating, data.Comment)
	if err != nil {
		return errors.Wrap(err, "creating evaluation")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *evaluationApi) query(ctx echo.Context) error {
	var filter evaluation.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to evaluation.QueryFilter")
	}
	evs, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	return ctx.JSON(http.StatusOK, evs)
}

func (api *evaluationApi) average(ctx echo.Context) error {
	eventID, err := requiredQueryParam(ctx, "event_id")
	if err != nil {
		return err
	}
	avg, err := api.svc.Average(ctx.Request().Context(), eventID)
	if err != nil {
		return errors.Wrap(err, "averaging ratings")
	}
	return ctx.JSON(http.StatusOK, avg)
}

func (api *evaluationApi) countByRating(ctx echo.Context) error {
	rating, err := intQueryParam(ctx, "rating")
	if err != nil {
		return err
	}
	count, err := api.svc.CountByRating(ctx.Request().Context(), rating)
	if err != nil {
		return errors.Wrap(err, "counting ratings")
	}
	return ctx.JSON(http.StatusOK, ratingCount{Rating: rating, Count: count})
}
