package metric

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/schoolcrm/core"
)

// SortKey orders rows by one field.
type SortKey struct {
	Field      string
	Descending bool
}

func (k SortKey) String() string {
	if k.Descending {
		return "-" + k.Field
	}
	return k.Field
}

// ParseOrdering parses a comma separated list of fields, each optionally prefixed with "-"
// for descending order, eg. "-remaining,id".
func ParseOrdering(s string) []SortKey {
	var keys []SortKey
	for _, field := range core.SplitList(s) {
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = strings.TrimSpace(field[1:]) // drop "-"
		}
		if field == "" {
			continue
		}
		keys = append(keys, SortKey{Field: field, Descending: descending})
	}
	return keys
}

// FieldFunc returns the value of field for row; ok is false for an unknown field.
type FieldFunc[T any] func(row T, field string) (value interface{}, ok bool)

type sortColumn struct {
	key     SortKey
	numeric bool
	nums    []decimal.Decimal
	strs    []string
}

// Sort returns a stably sorted copy of rows. For each key, values compare numerically when
// every row holds a number (ints, floats, decimals, times, numeric strings) and as strings
// otherwise. Descending only flips a non-zero comparison, so tied rows keep their input order
// in both directions.
func Sort[T any](rows []T, field FieldFunc[T], keys ...SortKey) ([]T, error) {
	if err := checkFields(field, keys); err != nil {
		return nil, err
	}
	sorted := append(make([]T, 0, len(rows)), rows...)
	if len(keys) == 0 || len(rows) < 2 {
		return sorted, nil
	}

	cols := make([]sortColumn, 0, len(keys))
	for _, k := range keys {
		col := sortColumn{key: k, numeric: true, nums: make([]decimal.Decimal, len(rows)), strs: make([]string, len(rows))}
		for i, row := range rows {
			v, ok := field(row, k.Field)
			if !ok {
				return nil, core.NewInvariantViolation("ordering: unknown field %q", k.Field)
			}
			col.strs[i] = toString(v)
			if col.numeric {
				if d, isNum := toDecimal(v); isNum {
					col.nums[i] = d
				} else {
					col.numeric = false
				}
			}
		}
		cols = append(cols, col)
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		for _, col := range cols {
			var c int
			if col.numeric {
				c = col.nums[a].Cmp(col.nums[b])
			} else {
				c = strings.Compare(col.strs[a], col.strs[b])
			}
			if c != 0 {
				if col.key.Descending {
					return -c
				}
				return c
			}
		}
		return 0
	})

	for i, j := range idx {
		sorted[i] = rows[j]
	}
	return sorted, nil
}

// checkFields rejects unknown fields whatever the rows, so an empty result fails like a full one.
func checkFields[T any](field FieldFunc[T], keys []SortKey) error {
	var zero T
	for _, k := range keys {
		if _, ok := field(zero, k.Field); !ok {
			return core.NewInvariantViolation("ordering: unknown field %q", k.Field)
		}
	}
	return nil
}

// Filter returns the rows matching pred, in order.
func Filter[T any](rows []T, pred func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return toDecimal(uint64(n))
	case uint8:
		return decimal.NewFromInt(int64(n)), true
	case uint16:
		return decimal.NewFromInt(int64(n)), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		d, err := decimal.NewFromString(strconv.FormatUint(n, 10))
		return d, err == nil
	case float32:
		return toDecimal(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	case decimal.NullDecimal:
		return n.Decimal, n.Valid
	case time.Time:
		// UnixNano overflows outside 1678-2262
		return decimal.NewFromInt(n.Unix()).Mul(decimal.NewFromInt(1e9)).Add(decimal.NewFromInt(int64(n.Nanosecond()))), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano)
	case decimal.NullDecimal:
		if !s.Valid {
			return ""
		}
		return s.Decimal.String()
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
