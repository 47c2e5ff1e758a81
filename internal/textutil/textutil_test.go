package textutil

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"PT1H2M3S", "1:02:03"},
		{"PT5M9S", "5:09"},
		{"garbage", "0:00"},
		{"", "0:00"},
		{"PT45S", "0:45"},
		{"PT10M", "10:00"},
		{"PT2H", "2:00:00"},
		{"PT1H5S", "1:00:05"},
		{"PT", "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := ParseDuration(tt.token); got != tt.want {
				t.Errorf("ParseDuration(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{3723, "1:02:03"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.secs); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{2_300_000, "2.3M"},
		{1_000_000, "1.0M"},
		{45_678, "45.7K"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"30s", 30 * time.Second, "just now"},
		{"future", -time.Hour, "just now"},
		{"90s", 90 * time.Second, "1 minute ago"},
		{"5m", 5 * time.Minute, "5 minutes ago"},
		{"1h", time.Hour, "1 hour ago"},
		{"2h", 2 * time.Hour, "2 hours ago"},
		{"1d", day, "1 day ago"},
		{"6d", 6 * day, "6 days ago"},
		{"1w", 7 * day, "1 week ago"},
		{"3w", 21 * day, "3 weeks ago"},
		{"28d", 28 * day, "1 month ago"},
		{"65d", 65 * day, "2 months ago"},
		{"359d", 359 * day, "11 months ago"},
		{"360d", 360 * day, "1 year ago"},
		{"364d", 364 * day, "1 year ago"},
		{"1y", 365 * day, "1 year ago"},
		{"3y", 3 * 365 * day, "3 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTime(now, now.Add(-tt.elapsed)); got != tt.want {
				t.Errorf("RelativeTime(-%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`The <span class="searchmatch">Go</span> language`, "The Go language"},
		{"plain", "plain"},
		{"&quot;quoted&quot; &amp; more", `"quoted" & more`},
		{"<b>bold</b><br/>", "bold"},
	}

	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("привет", 3); got != "при" {
		t.Errorf("Truncate() = %q, want %q", got, "при")
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate() = %q, want %q", got, "abc")
	}
}
