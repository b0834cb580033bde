package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		decimals int
		want     uint64
	}{
		{"whole number", "5", 6, 5000000},
		{"native amount", "3.5", 6, 3500000},
		{"exact precision", "1.000001", 6, 1000001},
		{"zero", "0", 6, 0},
		{"leading dot", ".5", 6, 500000},
		{"rounds half up, not truncates", "1.005", 2, 101},
		{"rounds down below half", "1.004", 2, 100},
		{"rounds up above half", "1.0051", 2, 101},
		{"long tail rounds", "0.9999999", 6, 1000000},
		{"no decimals asset", "42", 0, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.in, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBaseUnitsInvalid(t *testing.T) {
	for _, in := range []string{"", " ", "1.2.3", "abc", "1.", "1,5", "-1"} {
		t.Run(in, func(t *testing.T) {
			_, err := ToBaseUnits(in, 6)
			assert.Error(t, err)
		})
	}
}

func TestFormatBaseUnits(t *testing.T) {
	assert.Equal(t, "3.500000", FormatBaseUnits(3500000, 6))
	assert.Equal(t, "0.000001", FormatBaseUnits(1, 6))
	assert.Equal(t, "0.024981", FormatBaseUnits(24981, 6))
}

func TestMicroToAlgoRoundTrip(t *testing.T) {
	micro, err := AlgoToMicro(MicroToAlgo(123456789))
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), micro)
}

func TestCompareAmounts(t *testing.T) {
	cmp, err := CompareAmounts("1.5", "1.50", AlgoDecimals)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)

	cmp, err = CompareAmounts("0.1", "0.2", AlgoDecimals)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = CompareAmounts("2", "1.999999", AlgoDecimals)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}
