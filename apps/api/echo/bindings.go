package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/schoolcrm/core/metric"
)

var orderingParam = "ordering"

type Ordering struct {
	Keys []metric.SortKey
}

// Bind reads `?ordering=-total,name`. A missing or empty param keeps the default ordering.
func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Keys = metric.ParseOrdering(ctx.QueryParam(orderingParam))
}

func (ord *Ordering) Or(def []metric.SortKey) []metric.SortKey {
	if len(ord.Keys) == 0 {
		return def
	}
	return ord.Keys
}
