// Package nav computes the single-page navigation state: which section is
// active for a scroll position and which section a directional jump lands on.
package nav

type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection maps the wire value to a Direction. The pad is
// four-directional: left and right travel the same ordered list as up and
// down.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up", "left":
		return Up, true
	case "down", "right":
		return Down, true
	}
	return 0, false
}

// Region is one section's vertical extent on the page, [Top, Bottom).
type Region struct {
	Key    string
	Top    float64
	Bottom float64
}

// Active returns the key of the section containing the viewport midpoint.
// Positions before the first region resolve to the first section, positions
// past the last to the last, so exactly one section is always highlighted.
func Active(regions []Region, scrollY, viewportHeight float64) string {
	if len(regions) == 0 {
		return ""
	}
	mid := scrollY + viewportHeight/2
	if mid < regions[0].Top {
		return regions[0].Key
	}
	for _, r := range regions {
		if mid >= r.Top && mid < r.Bottom {
			return r.Key
		}
	}
	return regions[len(regions)-1].Key
}

// Advance returns the section a directional jump from current lands on.
// Jumps never wrap: up from the first section and down from the last return
// the current section with ok=false. An unknown current key also reports
// ok=false.
func Advance(order []string, current string, dir Direction) (string, bool) {
	for i, key := range order {
		if key != current {
			continue
		}
		switch dir {
		case Up:
			if i == 0 {
				return current, false
			}
			return order[i-1], true
		case Down:
			if i == len(order)-1 {
				return current, false
			}
			return order[i+1], true
		}
	}
	return current, false
}
