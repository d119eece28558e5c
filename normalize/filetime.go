package normalize

import (
	"strconv"
	"time"
)

const (
	filetimeEpochOffset = 116444736000000000
	filetimeNever       = int64(9223372036854775807)

	generalizedTimeLayout = "20060102150405.0Z"
)

// parseFiletime converts an Active Directory FILETIME string (100ns intervals
// since 1601-01-01 UTC) into a timestamp. Zero, empty and the "never" marker
// all mean the value is absent.
func parseFiletime(s string) *time.Time {
	if s == "" || s == "0" {
		return nil
	}

	ftVal, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	if ftVal == 0 || ftVal == filetimeNever {
		return nil
	}

	nsSinceUnix := (ftVal - filetimeEpochOffset) * 100
	t := time.Unix(0, nsSinceUnix).UTC()
	return &t
}

// parseGeneralizedTime converts a whenCreated-style generalized time string.
func parseGeneralizedTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(generalizedTimeLayout, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
