package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core/review"
)

type reviewApi struct {
	svc *review.Service
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := reviewApi{svc: opts.ReviewSvc}

	g.GET("/reviews", api.listPublic)

	ag := g.Group("/admin/reviews", jwt, adminMiddleware())
	ag.GET("/pending", api.listPending)
	ag.POST("/:id/approve", api.approve)
	ag.POST("/:id/reject", api.reject)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

func (api *reviewApi) listPublic(ctx echo.Context) error {
	reviews, err := api.svc.ListPublic(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing public reviews")
	}
	return ctx.JSON(http.StatusOK, reviews)
}

func (api *reviewApi) listPending(ctx echo.Context) error {
	reviews, err := api.svc.ListPending(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing pending reviews")
	}
	return ctx.JSON(http.StatusOK, reviews)
}

func (api *reviewApi) approve(ctx echo.Context) error {
	r, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return reviewError(err)
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reviewApi) reject(ctx echo.Context) error {
	r, err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return reviewError(err)
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reviewApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return reviewError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func reviewError(err error) error {
	if errors.Cause(err) == review.ErrNotFound {
		return errHttpNotFound
	}
	return err
}
