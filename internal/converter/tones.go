package converter

import (
	"fmt"

	"github.com/nconklindev/codeplug/internal/table"
)

const (
	// Offset2m is the standard repeater split on the 2 m band.
	Offset2m = "600 kHz"
	// Offset70cm is the standard repeater split on the 70 cm band.
	Offset70cm = "5.00 MHz"

	// BandThresholdMHz separates 2 m from 70 cm. Frequencies are compared
	// as stored, without unit normalization.
	BandThresholdMHz = 200

	toneSuffix = " Hz"
)

// OffsetFrequency returns the repeater split for a transmit frequency.
func OffsetFrequency(txMHz float64) string {
	if txMHz < BandThresholdMHz {
		return Offset2m
	}
	return Offset70cm
}

// OffsetDirection maps a RepeaterBook direction symbol to the RT Systems
// name. shifted is false for simplex, which carries no offset frequency.
func OffsetDirection(symbol string) (direction string, shifted bool) {
	switch symbol {
	case "+":
		return "Plus", true
	case "-":
		return "Minus", true
	default:
		return "Simplex", false
	}
}

// FormatCTCSS renders a tone as one-decimal text with an Hz unit.
func FormatCTCSS(tone float64) string {
	return fmt.Sprintf("%.1f%s", tone, toneSuffix)
}

// StripCTCSS drops the trailing unit (" Hz") from a tone string and parses
// the remainder, which must be a finite number.
func StripCTCSS(s string) (float64, error) {
	if len(s) < len(toneSuffix) {
		return 0, fmt.Errorf("tone %q is too short", s)
	}
	return table.Text(s[:len(s)-len(toneSuffix)]).Float()
}

// toneOf reads a tone cell as written by the FT70 layout. Numeric cells are
// taken as-is; text cells go through StripCTCSS.
func toneOf(c table.Cell) (float64, error) {
	switch c.Kind() {
	case table.KindNumber:
		return c.Float()
	case table.KindText:
		return StripCTCSS(c.String())
	default:
		return 0, fmt.Errorf("empty tone")
	}
}
