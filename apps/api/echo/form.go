package echoapi

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core/admission"
	"github.com/alyusr/institute/core/form"
)

type formApi struct {
	pipeline     *form.Pipeline
	svc          *form.Service
	admissionSvc *admission.Service
}

func registerFormAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := formApi{
		pipeline:     opts.Pipeline,
		svc:          opts.FormSvc,
		admissionSvc: opts.AdmissionSvc,
	}

	fg := g.Group("/forms")
	fg.POST("/submit", api.submit)
	fg.POST("/:type", api.submitTyped)

	// admin listings; submissions carry PII
	g.GET("/enrollments", api.listOf(form.TypeEnrollment), jwt, adminMiddleware())
	g.GET("/contact-forms", api.listOf(form.TypeContact), jwt, adminMiddleware())

	ag := g.Group("/admin/forms", jwt, adminMiddleware())
	ag.GET("/:type", api.list)
	ag.GET("/:type/pending", api.listPending)
	ag.POST("/:type/:id/approve", api.approve)
	ag.POST("/:type/:id/reject", api.reject)
}

// Handlers

func (api *formApi) submit(ctx echo.Context) error {
	var data SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitRequest")
	}
	res := api.pipeline.Submit(ctx.Request().Context(), form.Type(data.FormType), data.Data)
	return ctx.JSON(submitStatus(res), res)
}

func (api *formApi) submitTyped(ctx echo.Context) error {
	body, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	res := api.pipeline.Submit(ctx.Request().Context(), form.Type(ctx.Param("type")), body)
	return ctx.JSON(submitStatus(res), res)
}

func (api *formApi) list(ctx echo.Context) error {
	return api.respondList(ctx, form.Type(ctx.Param("type")), api.svc.Query)
}

func (api *formApi) listPending(ctx echo.Context) error {
	return api.respondList(ctx, form.Type(ctx.Param("type")), api.admissionSvc.ListPending)
}

func (api *formApi) listOf(t form.Type) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return api.respondList(ctx, t, api.svc.Query)
	}
}

func (api *formApi) approve(ctx echo.Context) error {
	sub, err := api.admissionSvc.Approve(ctx.Request().Context(), form.Type(ctx.Param("type")), ctx.Param("id"))
	if err != nil {
		return submissionError(err)
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *formApi) reject(ctx echo.Context) error {
	sub, err := api.admissionSvc.Reject(ctx.Request().Context(), form.Type(ctx.Param("type")), ctx.Param("id"))
	if err != nil {
		return submissionError(err)
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *formApi) respondList(
	ctx echo.Context,
	t form.Type,
	query func(c context.Context, t form.Type) ([]form.Submission, error),
) error {
	subs, err := query(ctx.Request().Context(), t)
	if err != nil {
		return submissionError(err)
	}
	if subs == nil {
		subs = []form.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func submissionError(err error) error {
	switch errors.Cause(err) {
	case form.ErrInvalidFormType:
		return echo.NewHTTPError(http.StatusBadRequest, form.ErrInvalidFormType.Error())
	case form.ErrSubmissionNotFound:
		return errHttpNotFound
	}
	return err
}

func submitStatus(res form.Result) int {
	if res.Success {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

type SubmitRequest struct {
	FormType string          `json:"formType"`
	Data     json.RawMessage `json:"data"`
}
