package vm

import (
	"math"
	"strconv"
)

// ValueType identifies the type of value stored in the Value struct
type ValueType uint8

const (
	ValInt ValueType = iota + 1
	ValFloat
)

func (t ValueType) String() string {
	switch t {
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	}
	return "invalid"
}

// Value is a stack-allocated tagged union. Data holds int64 bits or
// float64 bits depending on Type.
type Value struct {
	Type ValueType
	Data uint64
}

func IntVal(v int64) Value {
	return Value{Type: ValInt, Data: uint64(v)}
}

func FloatVal(v float64) Value {
	return Value{Type: ValFloat, Data: math.Float64bits(v)}
}

func (v Value) AsInt() int64 {
	return int64(v.Data)
}

func (v Value) AsFloat() float64 {
	return math.Float64frombits(v.Data)
}

// IsZero reports whether the value is int 0 or float ±0.
func (v Value) IsZero() bool {
	if v.Type == ValInt {
		return v.AsInt() == 0
	}
	return v.AsFloat() == 0
}

func (v Value) String() string {
	if v.Type == ValInt {
		return strconv.FormatInt(v.AsInt(), 10)
	}
	return FormatFloat(v.AsFloat())
}

// FormatFloat renders a number the way TRACE prints it.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
