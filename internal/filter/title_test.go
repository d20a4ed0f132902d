package filter

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		channel string
		want    string
	}{
		{
			name:    "strips clutter and appends artist",
			title:   "Amazing Song (Official Music Video)",
			channel: "Artist Official",
			want:    "Amazing Song - Artist",
		},
		{
			name:    "artist already present",
			title:   "Sauti Sol - Suzanna [4K] lyrics",
			channel: "Sauti Sol",
			want:    "Sauti Sol - Suzanna",
		},
		{
			name:    "noise tokens and casing",
			title:   "TOXIC (Official Video) HD",
			channel: "Lyrikali",
			want:    "Toxic - Lyrikali",
		},
		{
			name:    "bracketed content removed",
			title:   "Moyo [Visualizer] (prod. by Cedo)",
			channel: "Nyashinski",
			want:    "Moyo - Nyashinski",
		},
		{
			name:    "empty title keeps artist",
			title:   "(Official Video)",
			channel: "Bensoul",
			want:    "Bensoul",
		},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.title, tt.channel); got != tt.want {
			t.Fatalf("%s: NormalizeTitle(%q, %q) = %q, want %q",
				tt.name, tt.title, tt.channel, got, tt.want)
		}
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	pairs := []struct {
		title   string
		channel string
	}{
		{"Amazing Song (Official Music Video)", "Artist Official"},
		{"Sauti Sol - Suzanna [4K] lyrics", "Sauti Sol"},
		{"TOXIC (Official Video) HD", "Lyrikali"},
		{"sema sasa OFFICIAL AUDIO", "Okello Max Official"},
		{"", "Watendawili"},
		{"Nairobi Nights", "Nairobi Nights Band"},
	}
	for _, p := range pairs {
		once := NormalizeTitle(p.title, p.channel)
		twice := NormalizeTitle(once, p.channel)
		if once != twice {
			t.Fatalf("NormalizeTitle not idempotent for (%q, %q): first %q, second %q",
				p.title, p.channel, once, twice)
		}
	}
}
