package postalcode

import (
	"math"
	"strconv"
	"strings"
)

// LooksLikePostalCode is implemented by values that can be used as a postal
// code. AsUint32 must never fail; values that cannot represent a code map to
// 0, which is never a valid postal code.
type LooksLikePostalCode interface {
	AsUint32() uint32
}

// Integer wrappers. Conversion follows Go's fixed-width rules: wider values
// are truncated to their low 32 bits and negative values wrap.
type (
	Uint   uint
	Uint8  uint8
	Uint16 uint16
	Uint32 uint32
	Uint64 uint64
	Int    int
	Int8   int8
	Int16  int16
	Int32  int32
	Int64  int64
)

func (c Uint) AsUint32() uint32   { return uint32(c) }
func (c Uint8) AsUint32() uint32  { return uint32(c) }
func (c Uint16) AsUint32() uint32 { return uint32(c) }
func (c Uint32) AsUint32() uint32 { return uint32(c) }
func (c Uint64) AsUint32() uint32 { return uint32(c) }
func (c Int) AsUint32() uint32    { return uint32(c) }
func (c Int8) AsUint32() uint32   { return uint32(c) }
func (c Int16) AsUint32() uint32  { return uint32(c) }
func (c Int32) AsUint32() uint32  { return uint32(c) }
func (c Int64) AsUint32() uint32  { return uint32(c) }

// Float32 and Float64 truncate toward zero and saturate at the uint32 bounds.
// NaN converts to 0.
type (
	Float32 float32
	Float64 float64
)

func (c Float32) AsUint32() uint32 { return floatToUint32(float64(c)) }
func (c Float64) AsUint32() uint32 { return floatToUint32(float64(c)) }

func floatToUint32(f float64) uint32 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(f)
}

// String parses the whole text as a base-10 number. Anything else, including
// surrounding whitespace, yields 0.
type String string

func (c String) AsUint32() uint32 {
	n, err := strconv.ParseUint(strings.TrimPrefix(string(c), "+"), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}
