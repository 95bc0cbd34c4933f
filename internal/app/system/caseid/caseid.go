// Package caseid formats and allocates case identifiers.
//
// Normal allocation asks the PII store for the next sequence number and
// formats it as CASE-NNN (zero-padded to three digits, growing past 999
// without truncation). When the sequence endpoint is unavailable the
// fallback mints CASE-<base36 timestamp>-<base36 random>, uppercased,
// which is collision-resistant without any coordination.
package caseid

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Prefix is the leading tag on every case identifier.
const Prefix = "CASE-"

// Format renders a sequence number as a case identifier.
func Format(n int) string {
	return fmt.Sprintf("%s%03d", Prefix, n)
}

// Fallback mints a collision-resistant identifier from the current time
// and a random suffix. Used when sequence allocation fails.
func Fallback() string {
	return FallbackAt(time.Now(), rand.Int63n(36*36*36*36))
}

// FallbackAt is Fallback with explicit inputs for tests.
func FallbackAt(t time.Time, r int64) string {
	ts := strconv.FormatInt(t.UnixMilli(), 36)
	rnd := strconv.FormatInt(r, 36)
	return Prefix + strings.ToUpper(ts) + "-" + strings.ToUpper(rnd)
}

// IsFallback reports whether id was minted by the fallback path.
func IsFallback(id string) bool {
	rest, ok := strings.CutPrefix(id, Prefix)
	if !ok {
		return false
	}
	return strings.Contains(rest, "-")
}
