package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/metric"
)

type (
	invoiceQuery struct {
		Parent  string `json:"parent" query:"parent"`
		Student string `json:"student" query:"student"`
		Status  string `json:"status" query:"status" validate:"omitempty,oneof=paid partial unpaid"`
		Overdue string `json:"overdue" query:"overdue"`
	}

	invoiceApi struct {
		svc      *billing.Service
		validate *validator.Validate
	}
)

func registerInvoiceAPI(group *echo.Group, svc *billing.Service, validate *validator.Validate) {
	if svc == nil {
		return
	}
	api := invoiceApi{svc: svc, validate: validate}
	group.GET("/invoices", api.query)
}

// Handlers

func (api invoiceApi) query(ctx echo.Context) error {
	var q invoiceQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return core.NewValidationError(errors.Wrap(err, "binding to invoiceQuery"))
	}
	q.Status = core.CleanString(q.Status, true)
	if api.validate != nil {
		if err := api.validate.Struct(q); err != nil {
			return errors.Wrap(err, "validating invoiceQuery")
		}
	}
	var overdue bool
	if q.Overdue != "" {
		var err error
		if overdue, err = strconv.ParseBool(q.Overdue); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "overdue", Error: "must be true or false"})
		}
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	filter := billing.Filter{
		QueryFilter: billing.QueryFilter{
			ParentID:  core.CleanString(q.Parent),
			StudentID: core.CleanString(q.Student),
		},
		Status:      metric.InvoiceStatus(q.Status),
		OverdueOnly: overdue,
	}
	rows, err := api.svc.List(ctx.Request().Context(), filter, ordering.Keys)
	if err != nil {
		return errors.Wrap(err, "listing invoices")
	}
	if rows == nil {
		rows = []billing.Row{}
	}
	return ctx.JSON(http.StatusOK, rows)
}
