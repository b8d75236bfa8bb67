package functions

import (
	"fmt"
	"strings"
	"time"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func init() {
	for name, k := range datetimeBuiltins {
		builtins[name] = k
	}
}

var datetimeBuiltins = map[string]kernel{
	"NOW":      evalNow,
	"YEAR":     dateAccessor(func(t time.Time) rdf.Term { return rdf.NewIntegerLiteral(int64(t.Year())) }),
	"MONTH":    dateAccessor(func(t time.Time) rdf.Term { return rdf.NewIntegerLiteral(int64(t.Month())) }),
	"DAY":      dateAccessor(func(t time.Time) rdf.Term { return rdf.NewIntegerLiteral(int64(t.Day())) }),
	"HOURS":    dateAccessor(func(t time.Time) rdf.Term { return rdf.NewIntegerLiteral(int64(t.Hour())) }),
	"MINUTES":  dateAccessor(func(t time.Time) rdf.Term { return rdf.NewIntegerLiteral(int64(t.Minute())) }),
	"SECONDS":  dateAccessor(func(t time.Time) rdf.Term { return rdf.NewDoubleLiteral(float64(t.Second())) }),
	"TIMEZONE": evalTimezone,
	"TZ":       evalTz,
}

// evalNow returns the current UTC wall-clock time, read anew on every
// call: two NOW() calls within one query can return different values.
func evalNow(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 0 {
		return nil, argErr("NOW", 0, len(args))
	}
	return rdf.NewDateTimeLiteral(time.Now().UTC()), nil
}

func dateAccessor(project func(time.Time) rdf.Term) kernel {
	return func(args []Expr, binding Binding) (rdf.Term, error) {
		if len(args) != 1 {
			return nil, argErr("date/time accessor", 1, len(args))
		}
		t, err := extractDateTime(args, binding)
		if err != nil {
			return nil, err
		}
		return project(t), nil
	}
}

func evalTimezone(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("TIMEZONE", 1, len(args))
	}
	t, err := extractDateTime(args, binding)
	if err != nil {
		return nil, err
	}
	_, offset := t.Zone()
	if offset == 0 {
		return rdf.NewLiteralWithDatatype("PT0S", rdf.NewNamedNode("http://www.w3.org/2001/XMLSchema#dayTimeDuration")), nil
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	h, m := offset/3600, (offset%3600)/60
	return rdf.NewLiteralWithDatatype(fmt.Sprintf("%sPT%dH%dM", sign, h, m),
		rdf.NewNamedNode("http://www.w3.org/2001/XMLSchema#dayTimeDuration")), nil
}

func evalTz(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("TZ", 1, len(args))
	}
	t, err := extractDateTime(args, binding)
	if err != nil {
		return nil, err
	}
	name, offset := t.Zone()
	if offset == 0 {
		return rdf.NewLiteral("Z"), nil
	}
	return rdf.NewLiteral(name), nil
}

func extractDateTime(args []Expr, binding Binding) (time.Time, error) {
	term, err := evalArg(args, 0, binding)
	if err != nil {
		return time.Time{}, err
	}
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return time.Time{}, errf("expected a dateTime literal")
	}
	value := lit.Value
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errf("invalid dateTime literal %q", strings.TrimSpace(value))
}
