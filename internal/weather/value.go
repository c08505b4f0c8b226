package weather

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Sentinel is the value the CWB API reports for a missing reading.
const Sentinel = -99

// Metric names a per-station weather element.
type Metric string

const (
	MetricTemp    Metric = "TEMP" // current temperature
	MetricMaxTemp Metric = "D_TX"
	MetricMinTemp Metric = "D_TN"
	MetricUVI     Metric = "UVI"
)

// Value is an optional reading. The zero Value is absent.
type Value struct {
	Float float64
	Valid bool
}

// Of wraps f, treating the sentinel as absent.
func Of(f float64) Value {
	if f == Sentinel || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Valid: true}
}

// Parse reads a CWB element value. Unparseable text and the sentinel are absent.
func Parse(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Value{}
	}
	return Of(f)
}

func (v Value) String() string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// round2 rounds f to two decimals using its exact binary value, so 1.005
// (stored as 1.00499...) rounds down. Exact ties round away from zero.
func round2(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1e21 {
		return f
	}
	hundred := big.NewInt(100)
	r := new(big.Rat).SetFloat64(math.Abs(f))
	r.Mul(r, new(big.Rat).SetInt(hundred))

	n, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	// rem/denom >= 1/2
	if new(big.Int).Lsh(rem, 1).Cmp(r.Denom()) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	out, _ := new(big.Rat).SetFrac(n, hundred).Float64()
	return math.Copysign(out, f)
}
