package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
)

type (
	GradeReport struct {
		Context roster.Context          `json:"context"`
		Scale   []metric.Band           `json:"scale"`
		Rows    []grading.Row           `json:"rows"`
		Summary []roster.Bucket[string] `json:"summary"`
	}

	PayrollReport struct {
		Context roster.Context `json:"context"`
		Rows    []payroll.Row  `json:"rows"`
		Totals  payroll.Totals `json:"totals"`
	}

	reportApi struct {
		grading *roster.Service[grading.Grade]
		payroll *roster.Service[payroll.Slip]
		scale   metric.GradeScale
	}
)

var (
	// best students first, ties by name
	defaultGradeOrdering = []metric.SortKey{{Field: "total", Descending: true}, {Field: "name"}}

	// roster order
	defaultPayrollOrdering []metric.SortKey
)

func registerReportAPI(group *echo.Group, gradingSvc *roster.Service[grading.Grade], payrollSvc *roster.Service[payroll.Slip], scale metric.GradeScale) {
	api := reportApi{grading: gradingSvc, payroll: payrollSvc, scale: scale}

	if gradingSvc != nil {
		group.GET("/grades/:group/:period", api.grades)
	}
	if payrollSvc != nil {
		group.GET("/payroll/:group/:period", api.payrollReport)
	}
}

// Handlers

// grades accepts `?scale=coarse` to override the configured grade scale.
func (api reportApi) grades(ctx echo.Context) error {
	scale := api.scale
	if name := ctx.QueryParam("scale"); name != "" {
		var err error
		if scale, err = metric.ScaleByName(name); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "scale", Error: "must be one of: fine, coarse"})
		}
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	c := pathContext(ctx, roster.KindGrading)
	set, err := api.grading.Load(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "loading grades")
	}

	rows, err := metric.Sort(grading.Report(set, scale), grading.RowField, ordering.Or(defaultGradeOrdering)...)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: orderingParam, Error: err.Error()})
	}
	summary, err := grading.Summarize(set, scale)
	if err != nil {
		return errors.Wrap(err, "summarizing grades")
	}

	return ctx.JSON(http.StatusOK, GradeReport{
		Context: c,
		Scale:   scale.Bands(),
		Rows:    rows,
		Summary: summary.Buckets(),
	})
}

func (api reportApi) payrollReport(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	c := pathContext(ctx, roster.KindPayroll)
	set, err := api.payroll.Load(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "loading payroll")
	}

	rows, err := payroll.Report(set, metric.DeductionMatchers, metric.AllowanceMatchers)
	if err != nil {
		return errors.Wrap(err, "reporting payroll")
	}
	if rows, err = metric.Sort(rows, payroll.RowField, ordering.Or(defaultPayrollOrdering)...); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: orderingParam, Error: err.Error()})
	}

	return ctx.JSON(http.StatusOK, PayrollReport{
		Context: c,
		Rows:    rows,
		Totals:  payroll.Sum(rows),
	})
}
