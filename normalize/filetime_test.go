package normalize

import (
	"testing"
	"time"
)

func TestParseFiletime(t *testing.T) {
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	oneSecond := epoch.Add(time.Second)

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{name: "empty is absent", in: "", want: nil},
		{name: "zero is absent", in: "0", want: nil},
		{name: "never marker is absent", in: "9223372036854775807", want: nil},
		{name: "garbage is absent", in: "not-a-number", want: nil},
		{name: "unix epoch", in: "116444736000000000", want: &epoch},
		{name: "one second past epoch", in: "116444736010000000", want: &oneSecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFiletime(tt.in)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("parseFiletime(%q) = %v, want %v", tt.in, got, tt.want)
			case !got.Equal(*tt.want):
				t.Errorf("parseFiletime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseGeneralizedTime(t *testing.T) {
	got := parseGeneralizedTime("20240115083045.0Z")
	if got == nil {
		t.Fatal("parseGeneralizedTime returned nil for a valid value")
	}
	want := time.Date(2024, 1, 15, 8, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseGeneralizedTime = %v, want %v", got, want)
	}

	if parseGeneralizedTime("") != nil {
		t.Error("empty generalized time should be absent")
	}
	if parseGeneralizedTime("January 2024") != nil {
		t.Error("unparseable generalized time should be absent")
	}
}
