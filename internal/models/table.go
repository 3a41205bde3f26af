package models

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tobgu/qframe"
	"github.com/tobgu/qframe/types"
)

const (
	DiagnosisColumn = "num"
	StatusColumn    = "disease_status"

	LabelDisease   = "Disease"
	LabelNoDisease = "No Disease"
)

var ErrMissingColumn = errors.New("missing column")

// StatusLabels lists derived labels in group order.
var StatusLabels = []string{LabelDisease, LabelNoDisease}

// DiagnosisLabel collapses the 0-4 diagnosis code into a binary label.
func DiagnosisLabel(code float64) string {
	if code > 0 {
		return LabelDisease
	}
	return LabelNoDisease
}

// Table is the patient record set shown by the application
type Table struct {
	mu    sync.RWMutex
	frame qframe.QFrame
}

// Partition holds the rows sharing one derived label
type Partition struct {
	Label string
	Table *Table
}

// NewTable wraps frame, rejecting frames that carry an error
func NewTable(frame qframe.QFrame) (*Table, error) {
	if frame.Err != nil {
		return nil, fmt.Errorf("invalid frame: %w", frame.Err)
	}
	return &Table{frame: frame}, nil
}

// Frame returns the current underlying frame
func (t *Table) Frame() qframe.QFrame {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frame
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frame.Len()
}

func (t *Table) Columns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frame.ColumnNames()
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.frame.ColumnTypeMap()[name]
	return ok
}

// DropNulls returns a new table without rows holding a missing value in any column.
func (t *Table) DropNulls() (*Table, error) {
	frame := t.Frame()
	for name, typ := range frame.ColumnTypeMap() {
		clause, ok := notNullClause(name, typ)
		if !ok {
			continue
		}
		frame = frame.Filter(clause)
		if frame.Err != nil {
			return nil, fmt.Errorf("drop nulls in %s: %w", name, frame.Err)
		}
	}
	return NewTable(frame)
}

// notNullClause builds a filter keeping non-null values. Int and bool
// columns cannot hold nulls in qframe and need no clause.
func notNullClause(column string, typ types.DataType) (qframe.Filter, bool) {
	switch typ {
	case types.Float:
		return qframe.Filter{Column: column, Comparator: func(f float64) bool { return !math.IsNaN(f) }}, true
	case types.String, types.Enum:
		return qframe.Filter{Column: column, Comparator: func(s *string) bool { return s != nil }}, true
	default:
		return qframe.Filter{}, false
	}
}

// Floats copies a numeric column out of the table
func (t *Table) Floats(column string) ([]float64, error) {
	frame := t.Frame()
	typ, ok := frame.ColumnTypeMap()[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}

	switch typ {
	case types.Float:
		view, err := frame.FloatView(column)
		if err != nil {
			return nil, err
		}
		out := make([]float64, view.Len())
		for i := range out {
			out[i] = view.ItemAt(i)
		}
		return out, nil
	case types.Int:
		view, err := frame.IntView(column)
		if err != nil {
			return nil, err
		}
		out := make([]float64, view.Len())
		for i := range out {
			out[i] = float64(view.ItemAt(i))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("column %s is not numeric (%s)", column, typ)
	}
}

// Label (re)computes the derived status column from the diagnosis code.
// The previous status column, if any, is overwritten.
func (t *Table) Label() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	typ, ok := t.frame.ColumnTypeMap()[DiagnosisColumn]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingColumn, DiagnosisColumn)
	}

	var fn interface{}
	switch typ {
	case types.Float:
		fn = func(code float64) *string {
			label := DiagnosisLabel(code)
			return &label
		}
	case types.Int:
		fn = func(code int) *string {
			label := DiagnosisLabel(float64(code))
			return &label
		}
	default:
		return fmt.Errorf("diagnosis column %s is not numeric (%s)", DiagnosisColumn, typ)
	}

	labeled := t.frame.Apply(qframe.Instruction{Fn: fn, DstCol: StatusColumn, SrcCol1: DiagnosisColumn})
	if labeled.Err != nil {
		return fmt.Errorf("derive %s: %w", StatusColumn, labeled.Err)
	}
	t.frame = labeled
	return nil
}

// Partition labels the table and splits it by derived label.
// Groups follow StatusLabels order; empty groups are left out.
func (t *Table) Partition() ([]Partition, error) {
	if err := t.Label(); err != nil {
		return nil, err
	}

	frame := t.Frame()
	parts := make([]Partition, 0, len(StatusLabels))
	for _, label := range StatusLabels {
		sub := frame.Filter(qframe.Filter{Column: StatusColumn, Comparator: "=", Arg: label})
		if sub.Err != nil {
			return nil, fmt.Errorf("partition %q: %w", label, sub.Err)
		}
		if sub.Len() == 0 {
			continue
		}
		parts = append(parts, Partition{Label: label, Table: &Table{frame: sub}})
	}
	return parts, nil
}
