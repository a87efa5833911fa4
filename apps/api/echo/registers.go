package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
)

type (
	// register serves one register kind.
	register interface {
		retrieve(ctx echo.Context, c roster.Context) error
		replace(ctx echo.Context, c roster.Context) error
	}

	typedRegister[S any] struct {
		svc      *roster.Service[S]
		validate *validator.Validate
		summary  func(set roster.MergedSet[S]) (interface{}, error)
	}

	ReplaceRequest[S any] struct {
		Entries []roster.Edit[S] `json:"entries" validate:"dive"`
	}

	RegisterResponse[S any] struct {
		roster.MergedSet[S]
		Summary interface{} `json:"summary,omitempty"`
	}

	registerApi struct{}
)

func registerRegisterAPI(group *echo.Group, regs map[string]register) {
	api := registerApi{}

	g := group.Group("/registers/:kind/:group/:period", registerMiddleware(regs))
	g.GET("", api.retrieve)
	g.PUT("", api.replace)
}

// Handlers

func (api registerApi) retrieve(ctx echo.Context) error {
	reg, ok := getContextRegister(ctx)
	if !ok {
		return errors.Wrap(errRegisterNotInCtx, "retrieving register from context")
	}
	return reg.retrieve(ctx, pathContext(ctx, ctx.Param("kind")))
}

func (api registerApi) replace(ctx echo.Context) error {
	reg, ok := getContextRegister(ctx)
	if !ok {
		return errors.Wrap(errRegisterNotInCtx, "retrieving register from context")
	}
	return reg.replace(ctx, pathContext(ctx, ctx.Param("kind")))
}

func (r typedRegister[S]) retrieve(ctx echo.Context, c roster.Context) error {
	set, err := r.svc.Load(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "loading register")
	}
	return r.respond(ctx, set)
}

func (r typedRegister[S]) replace(ctx echo.Context, c roster.Context) error {
	var data ReplaceRequest[S]
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReplaceRequest")
	}
	if r.validate != nil {
		if err := r.validate.Struct(data); err != nil {
			return errors.Wrap(err, "validating ReplaceRequest")
		}
	}

	set, err := r.svc.Replace(ctx.Request().Context(), c, data.Entries)
	if err != nil {
		return errors.Wrap(err, "replacing register")
	}
	return r.respond(ctx, set)
}

func (r typedRegister[S]) respond(ctx echo.Context, set roster.MergedSet[S]) error {
	resp := RegisterResponse[S]{MergedSet: set}
	if r.summary != nil {
		summary, err := r.summary(set)
		if err != nil {
			return errors.Wrap(err, "summarizing register")
		}
		resp.Summary = summary
	}
	if resp.Entries == nil {
		resp.Entries = []roster.MergedEntry[S]{}
	}
	if resp.Orphans == nil {
		resp.Orphans = []roster.Record[S]{}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func attendanceSummary(set roster.MergedSet[attendance.Mark]) (interface{}, error) {
	summary, err := attendance.Summarize(set)
	if err != nil {
		return nil, err
	}
	return summary.Buckets(), nil
}

func gradingSummary(scale metric.GradeScale) func(roster.MergedSet[grading.Grade]) (interface{}, error) {
	return func(set roster.MergedSet[grading.Grade]) (interface{}, error) {
		summary, err := grading.Summarize(set, scale)
		if err != nil {
			return nil, err
		}
		return summary.Buckets(), nil
	}
}

func payrollSummary(set roster.MergedSet[payroll.Slip]) (interface{}, error) {
	rows, err := payroll.Report(set, metric.DeductionMatchers, metric.AllowanceMatchers)
	if err != nil {
		return nil, err
	}
	return payroll.Sum(rows), nil
}
