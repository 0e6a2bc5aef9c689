package nav

import "testing"

func pageRegions() []Region {
	return []Region{
		{Key: "home", Top: 0, Bottom: 800},
		{Key: "about", Top: 800, Bottom: 1800},
		{Key: "education", Top: 1800, Bottom: 2600},
		{Key: "contact", Top: 2600, Bottom: 3200},
	}
}

func TestActive(t *testing.T) {
	tests := []struct {
		name     string
		scrollY  float64
		viewport float64
		want     string
	}{
		{name: "top of page", scrollY: 0, viewport: 900, want: "home"},
		{name: "midpoint crosses into second section", scrollY: 450, viewport: 900, want: "about"},
		{name: "midpoint exactly at boundary", scrollY: 350, viewport: 900, want: "about"},
		{name: "midpoint just before boundary", scrollY: 349, viewport: 900, want: "home"},
		{name: "scrolled past the end", scrollY: 5000, viewport: 900, want: "contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Active(pageRegions(), tt.scrollY, tt.viewport); got != tt.want {
				t.Errorf("Active(%v, %v) = %q, want %q", tt.scrollY, tt.viewport, got, tt.want)
			}
		})
	}
}

func TestActiveEmptyRegions(t *testing.T) {
	if got := Active(nil, 100, 900); got != "" {
		t.Errorf("Active with no regions = %q, want empty", got)
	}
}

func TestAdvance(t *testing.T) {
	order := []string{"home", "about", "education", "contact"}

	tests := []struct {
		name    string
		current string
		dir     Direction
		want    string
		wantOK  bool
	}{
		{name: "down from middle", current: "about", dir: Down, want: "education", wantOK: true},
		{name: "up from middle", current: "education", dir: Up, want: "about", wantOK: true},
		{name: "down from last does not wrap", current: "contact", dir: Down, want: "contact", wantOK: false},
		{name: "up from first does not wrap", current: "home", dir: Up, want: "home", wantOK: false},
		{name: "unknown section", current: "blog", dir: Down, want: "blog", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Advance(order, tt.current, tt.dir)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Advance(%q, %v) = %q, %v; want %q, %v", tt.current, tt.dir, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		raw  string
		want Direction
	}{
		{"down", Down},
		{"right", Down},
		{"up", Up},
		{"left", Up},
	}
	for _, tt := range tests {
		if d, ok := ParseDirection(tt.raw); !ok || d != tt.want {
			t.Errorf("ParseDirection(%s) = %v, %v", tt.raw, d, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection accepted an unknown direction")
	}
}
