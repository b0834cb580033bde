package common

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	AlgoDecimals = 6 // ALGO has 6 decimals (microalgos)
	USDCDecimals = 6 // USDC ASA has 6 decimals
)

// MicroToAlgo converts microalgos to an ALGO string without float precision loss
func MicroToAlgo(micro uint64) string {
	return FormatBaseUnits(micro, AlgoDecimals)
}

// AlgoToMicro converts an ALGO string to microalgos, rounding half up
func AlgoToMicro(algo string) (uint64, error) {
	return ToBaseUnits(algo, AlgoDecimals)
}

// FormatBaseUnits converts integer base units to a decimal string by inserting
// the decimal point. Example: FormatBaseUnits(3500000, 6) = "3.500000"
func FormatBaseUnits(value uint64, decimals int) string {
	s := fmt.Sprintf("%d", value)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// ToBaseUnits converts a decimal string to integer base units by removing the
// decimal point. Excess fractional digits round to the nearest base unit
// (half up), never truncate: ToBaseUnits("1.005", 2) = 101.
func ToBaseUnits(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")

	if len(parts) == 1 {
		// No decimal point - multiply by 10^decimals
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, err
		}
		for i := 0; i < decimals; i++ {
			n *= 10
		}
		return n, nil
	}

	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	frac := parts[1]
	if whole == "" {
		whole = "0"
	}
	if frac == "" {
		return 0, fmt.Errorf("invalid decimal format")
	}
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid decimal format")
		}
	}

	// Digits beyond the asset precision decide the rounding direction
	roundUp := false
	if len(frac) > decimals {
		roundUp = frac[decimals] >= '5'
		frac = frac[:decimals]
	}

	// Pad fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	}

	// Combine and parse
	combined := whole + frac
	n, err := strconv.ParseUint(combined, 10, 64)
	if err != nil {
		return 0, err
	}
	if roundUp {
		n++
	}
	return n, nil
}

// CompareAmounts compares two decimal string amounts at the given precision
// without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareAmounts(a, b string, decimals int) (int, error) {
	aVal, err := ToBaseUnits(a, decimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := ToBaseUnits(b, decimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	if aVal < bVal {
		return -1, nil
	}
	if aVal > bVal {
		return 1, nil
	}
	return 0, nil
}
