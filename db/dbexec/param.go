package dbexec

import "time"

// Param is a positional statement parameter drawn from a closed set of
// bindable values, so binding is checked at the call site instead of
// relying on runtime type dispatch. The caller is responsible for
// supplying as many params as the statement has placeholders; a mismatch
// is a statement error reported by the database.
type Param struct {
	v any
}

func String(v string) Param  { return Param{v: v} }
func Int(v int) Param        { return Param{v: v} }
func Int64(v int64) Param    { return Param{v: v} }
func Float(v float64) Param  { return Param{v: v} }
func Bool(v bool) Param      { return Param{v: v} }
func Time(v time.Time) Param { return Param{v: v} }
func Bytes(v []byte) Param   { return Param{v: v} }
func Null() Param            { return Param{} }

// Value is the driver-facing value.
func (p Param) Value() any { return p.v }

// Args flattens params for a driver call.
func Args(params ...Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.v
	}
	return out
}
