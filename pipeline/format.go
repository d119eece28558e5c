package pipeline

import (
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// joinValues renders a multi-valued field for display. The input is already
// deterministically ordered by the normalizer.
func joinValues(values []string) string {
	return strings.Join(values, "; ")
}
