// Package util holds small formatting and hashing helpers shared by the services.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Checksum hashes everything read from r and returns the hex encoded SHA256 sum.
func Checksum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", errors.Wrap(err, "checksum")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with binary units and one decimal, e.g. "1.5 MB".
func FormatBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	value := float64(n) / 1024
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	return strconv.FormatFloat(value, 'f', 1, 64) + " " + byteUnits[unit]
}

// FormatDuration renders a wait for humans. Sub-second remainders round up so
// a pending wait never reads as zero. Seconds are dropped once hours appear.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	secs := int64((d + time.Second - 1) / time.Second)

	hours, rest := secs/3600, secs%3600
	minutes, seconds := rest/60, rest%60

	var b strings.Builder
	switch {
	case hours > 0:
		b.WriteString(strconv.FormatInt(hours, 10) + "h")
		b.WriteString(strconv.FormatInt(minutes, 10) + "m")
	case minutes > 0:
		b.WriteString(strconv.FormatInt(minutes, 10) + "m")
		b.WriteString(strconv.FormatInt(seconds, 10) + "s")
	default:
		b.WriteString(strconv.FormatInt(seconds, 10) + "s")
	}

	return b.String()
}
