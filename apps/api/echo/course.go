package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core/course"
)

type courseApi struct {
	svc      *course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := courseApi{svc: opts.CourseSvc, validate: opts.Validate}

	cg := g.Group("/courses")
	cg.GET("", api.listActive)
	cg.GET("/:id", api.retrieve)

	ag := cg.Group("", jwt, adminMiddleware())
	ag.GET("/all", api.listAll)
	ag.POST("", api.create)
	ag.PUT("/:id/active", api.setActive)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

func (api *courseApi) listActive(ctx echo.Context) error {
	courses, err := api.svc.QueryActive(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing active courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) listAll(ctx echo.Context) error {
	courses, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return courseError(err)
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) setActive(ctx echo.Context) error {
	var data SetActiveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetActiveRequest")
	}

	c, err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"), data.Active)
	if err != nil {
		return courseError(err)
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return courseError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func courseError(err error) error {
	if errors.Cause(err) == course.ErrNotFound {
		return errHttpNotFound
	}
	return err
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}
