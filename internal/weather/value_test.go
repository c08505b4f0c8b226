package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"23.5", Of(23.5)},
		{" 0 ", Value{Float: 0, Valid: true}},
		{"-99", Value{}},
		{"-99.0", Value{}},
		{"-5.2", Of(-5.2)},
		{"", Value{}},
		{"X", Value{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Value{"a": Of(1.5), "b": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(b))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "21.25", Of(21.25).String())
	assert.Equal(t, "-", Value{}.String())
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1},
		{2.675, 2.67},
		{0.125, 0.13},
		{-0.125, -0.13},
		{15.35, 15.35},
		{20.5555, 20.56},
		{-3.14159, -3.14},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}

	a, b := 15.35, 15.3
	assert.Equal(t, 15.32, round2((a+b)/2))
}
