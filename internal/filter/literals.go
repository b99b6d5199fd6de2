package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a --size literal: "[+-]N[unit]", unit one of
// B/K/M/G/T/Ki/Mi/Gi/Ti. "+" means at-least, "-" means at-most, bare is
// equality. The numeric/unit portion is delegated to humanize.ParseBytes.
func ParseSize(s string) (SizeBound, error) {
	if s == "" {
		return SizeBound{}, fmt.Errorf("empty size literal")
	}
	op := SizeEqual
	rest := s
	switch s[0] {
	case '+':
		op = SizeAtLeast
		rest = s[1:]
	case '-':
		op = SizeAtMost
		rest = s[1:]
	}
	bytes, err := humanize.ParseBytes(rest)
	if err != nil {
		return SizeBound{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return SizeBound{Op: op, Bytes: int64(bytes)}, nil
}

// ParseType maps a --type token (long or short form) to an EntryType.
func ParseType(s string) (EntryType, error) {
	switch strings.ToLower(s) {
	case "f", "file":
		return TypeFile, nil
	case "d", "dir", "directory":
		return TypeDir, nil
	case "l", "symlink":
		return TypeSymlink, nil
	case "x", "executable":
		return TypeExecutable, nil
	case "e", "empty":
		return TypeEmpty, nil
	case "s", "socket":
		return TypeSocket, nil
	case "p", "pipe":
		return TypePipe, nil
	case "b", "block-device":
		return TypeBlockDevice, nil
	case "c", "char-device":
		return TypeCharDevice, nil
	default:
		return 0, fmt.Errorf("unrecognized type filter: %q", s)
	}
}

// ParseOwner parses "[!]user[:[!]group]".
func ParseOwner(s string) (Owner, error) {
	var o Owner
	userPart, groupPart, hasGroup := strings.Cut(s, ":")

	if userPart != "" {
		o.HasUser = true
		if strings.HasPrefix(userPart, "!") {
			o.UserNeg = true
			userPart = userPart[1:]
		}
		o.User = userPart
	}
	if hasGroup {
		o.HasGroup = true
		if strings.HasPrefix(groupPart, "!") {
			o.GroupNeg = true
			groupPart = groupPart[1:]
		}
		o.Group = groupPart
	}
	if !o.HasUser && !o.HasGroup {
		return Owner{}, fmt.Errorf("invalid owner filter %q", s)
	}
	return o, nil
}

// ParseMTimeBound parses a mtime literal for --changed-within/--changed-before/
// --newer/--older: absolute ISO-8601 (with T or space separator), "@seconds"
// epoch, or a relative duration (30s, 1h, 2d, 3weeks, 1mo, 1y) resolved
// against now in the local time zone.
func ParseMTimeBound(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date literal")
	}
	if strings.HasPrefix(s, "@") {
		secs, err := strconv.ParseInt(s[1:], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch literal %q: %w", s, err)
		}
		return time.Unix(secs, 0), nil
	}
	// Month and year units honor calendar variability (not a fixed
	// number of seconds), so they are resolved by AddDate directly
	// rather than folded into parseRelativeDuration.
	if n, ok := cutNumericSuffix(s, "mo"); ok {
		return now.AddDate(0, -int(n), 0), nil
	}
	if n, ok := cutNumericSuffix(s, "years"); ok {
		return now.AddDate(-int(n), 0, 0), nil
	}
	if n, ok := cutNumericSuffix(s, "y"); ok {
		return now.AddDate(-int(n), 0, 0), nil
	}
	if d, ok := parseRelativeDuration(s); ok {
		return now.Add(-d), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/duration literal %q", s)
}

// parseRelativeDuration parses the fixed-length relative suffixes
// "Ns|Nm|Nh|Nd|Nweeks". Month and year units are handled by the caller via
// AddDate before this is reached.
func parseRelativeDuration(s string) (time.Duration, bool) {
	switch {
	case strings.HasSuffix(s, "weeks"):
		if n, ok := cutNumericSuffix(s, "weeks"); ok {
			return time.Duration(n) * 7 * 24 * time.Hour, true
		}
	case strings.HasSuffix(s, "d"):
		if n, ok := cutNumericSuffix(s, "d"); ok {
			return time.Duration(n) * 24 * time.Hour, true
		}
	case strings.HasSuffix(s, "h"):
		if n, ok := cutNumericSuffix(s, "h"); ok {
			return time.Duration(n) * time.Hour, true
		}
	case strings.HasSuffix(s, "m"):
		if n, ok := cutNumericSuffix(s, "m"); ok {
			return time.Duration(n) * time.Minute, true
		}
	case strings.HasSuffix(s, "s"):
		if n, ok := cutNumericSuffix(s, "s"); ok {
			return time.Duration(n) * time.Second, true
		}
	}
	return 0, false
}

func cutNumericSuffix(s, suffix string) (float64, bool) {
	if !strings.HasSuffix(s, suffix) {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s, suffix), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
