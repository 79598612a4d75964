package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core/student"
)

type studentApi struct {
	svc      *student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentApi{svc: opts.StudentSvc, validate: opts.Validate}

	// teachers are derived from active-student rows
	g.GET("/teachers", api.listTeachers)

	sg := g.Group("/active-students", jwt, adminMiddleware())
	sg.GET("", api.list)
	sg.POST("", api.create)
	sg.DELETE("", api.destroyMultiple)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *studentApi) listTeachers(ctx echo.Context) error {
	teachers, err := api.svc.GroupTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "grouping teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *studentApi) list(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing active students")
	}
	if students == nil {
		students = []student.ActiveStudent{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewActiveStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActiveStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Add(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding active student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Remove(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing active student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Remove(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "removing active students")
	}
	return ctx.NoContent(http.StatusNoContent)
}
