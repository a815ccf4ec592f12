package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eaburns/tsck/loc"
	"go.uber.org/multierr"
)

// An Error is a diagnostic reported by the analyzer.
type Error struct {
	Range loc.Range
	Loc   loc.Loc
	Msg   string
	Notes []string
}

func note(err *Error, f string, vs ...interface{}) {
	err.Notes = append(err.Notes, fmt.Sprintf(f, vs...))
}

func (err *Error) Error() string {
	var s strings.Builder
	s.WriteString(err.Loc.String())
	s.WriteString(": ")
	s.WriteString(err.Msg)
	for _, n := range err.Notes {
		s.WriteString("\n\t")
		s.WriteString(n)
	}
	return s.String()
}

// A NotFoundError is returned when a name is not in the builtin environment.
type NotFoundError struct {
	// What is either "variable" or "type".
	What string
	Name string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("no builtin %s %s", err.What, err.Name)
}

func (a *Analyzer) err(n loc.Range, f string, vs ...interface{}) *Error {
	err := &Error{Range: n, Msg: fmt.Sprintf(f, vs...)}
	if a.cfg.Locs != nil {
		err.Loc = a.cfg.Locs.Loc(n)
	}
	return err
}

// report records a diagnostic.
// Errors that are not diagnostics are internal failures and panic.
func (a *Analyzer) report(err error) {
	if err == nil {
		return
	}
	e, ok := err.(*Error)
	if !ok {
		panic(fmt.Sprintf("impossible error type %T: %v", err, err))
	}
	a.log("report: %s", e.Msg)
	a.errs = append(a.errs, e)
}

// Errors returns the diagnostics reported so far,
// sorted by location with duplicates removed.
func (a *Analyzer) Errors() []error {
	return convertErrors(a.errs)
}

// Err returns the diagnostics reported so far combined into a single error,
// or nil if there are none.
func (a *Analyzer) Err() error {
	return multierr.Combine(a.Errors()...)
}

func convertErrors(errs []*Error) []error {
	var out []error
	for _, e := range sortErrors(errs) {
		out = append(out, e)
	}
	return out
}

func sortErrors(errs []*Error) []*Error {
	if len(errs) == 0 {
		return nil
	}
	errs = append([]*Error{}, errs...)
	sort.SliceStable(errs, func(i, j int) bool {
		ei, ej := errs[i], errs[j]
		if ei.Loc != ej.Loc {
			return ei.Loc.Less(ej.Loc)
		}
		return ei.Range[0] < ej.Range[0]
	})
	dedup := []*Error{errs[0]}
	for _, e := range errs[1:] {
		d := dedup[len(dedup)-1]
		if e.Loc != d.Loc || e.Range != d.Range || e.Msg != d.Msg {
			dedup = append(dedup, e)
		}
	}
	return dedup
}
