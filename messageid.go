package securepay

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const messageIDLength = 30

// randomMessageID draws n characters from alphabet. A nil rng uses the
// package level source. Requests always carry their own rng.
func randomMessageID(rng *rand.Rand, alphabet string, n int) string {
	chars := []rune(alphabet)
	var b strings.Builder
	b.Grow(n)
	for range n {
		var i int
		if rng != nil {
			i = rng.IntN(len(chars))
		} else {
			i = rand.IntN(len(chars))
		}
		b.WriteRune(chars[i])
	}
	return b.String()
}

// FormatTimestamp renders t in the gateway's messageTimestamp layout,
// YYYYDDMMHHNNSSKKK000sOOO: year, day, month, time, milliseconds, three zero
// digits, then the UTC offset in minutes with its sign.
func FormatTimestamp(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%04d%02d%02d%02d%02d%02d%03d000%c%03d",
		t.Year(), t.Day(), int(t.Month()),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond),
		sign, offset/60)
}
