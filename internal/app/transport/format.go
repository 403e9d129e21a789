package transport

import (
	"math"
	"strconv"
)

// maxFormatSeconds keeps the minute count inside int64.
const maxFormatSeconds = float64(1 << 62)

// FormatTime formats a seconds value as M:SS.
// Minutes are unbounded and unpadded; seconds are zero-padded to two digits.
// Negative and NaN inputs are treated as 0.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > maxFormatSeconds {
		seconds = maxFormatSeconds
	}

	minutes := int64(math.Floor(seconds / 60))
	rest := int64(math.Floor(math.Mod(seconds, 60)))

	if rest < 10 {
		return strconv.FormatInt(minutes, 10) + ":0" + strconv.FormatInt(rest, 10)
	}
	return strconv.FormatInt(minutes, 10) + ":" + strconv.FormatInt(rest, 10)
}
