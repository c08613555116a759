package advisory

import (
	"math"
	"strconv"
)

// FormatINR groups a rupee amount the Indian way: the last three digits, then
// pairs, e.g. 1,20,000. Amounts are rounded to whole rupees.
func FormatINR(v float64) string {
	neg := v < 0
	digits := strconv.FormatInt(int64(math.Round(math.Abs(v))), 10)

	if len(digits) > 3 {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		out := make([]byte, 0, len(digits)+len(digits)/2)
		lead := len(head) % 2
		if lead > 0 {
			out = append(out, head[:lead]...)
		}
		for i := lead; i < len(head); i += 2 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, head[i:i+2]...)
		}
		digits = string(out) + "," + tail
	}

	if neg {
		return "-" + digits
	}
	return digits
}
