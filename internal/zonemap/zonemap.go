// Package zonemap enumerates the untouchable regions of a QR symbol for a
// given version (spec §4.2): finder patterns, their separators, the two
// timing lines, format/version info, and alignment patterns. The map is a
// pure function of version alone, memoized the way spec §4.2 asks.
package zonemap

import (
	"sync"

	"github.com/qrengine/qrcodeengine/internal/qrencode"
)

// ZoneType tags the kind of untouchable region a Zone represents.
type ZoneType int8

const (
	FinderPattern ZoneType = iota
	Separator
	TimingPattern
	FormatInfo
	VersionInfo
	AlignmentPattern
)

// Zone is an axis-aligned rectangle in module coordinates.
type Zone struct {
	Type          ZoneType
	X, Y, W, H    int
}

// Contains reports whether module (x, y) falls inside the zone.
func (z Zone) Contains(x, y int) bool {
	return x >= z.X && x < z.X+z.W && y >= z.Y && y < z.Y+z.H
}

var (
	mu    sync.Mutex
	cache = map[qrencode.Version][]Zone{}
)

// For returns the untouchable zones for version, memoized per version.
func For(version qrencode.Version) []Zone {
	mu.Lock()
	defer mu.Unlock()
	if zones, ok := cache[version]; ok {
		return zones
	}
	zones := compute(version)
	cache[version] = zones
	return zones
}

// IsUntouchable reports whether (x, y) lies in any untouchable zone for
// version.
func IsUntouchable(version qrencode.Version, x, y int) bool {
	for _, z := range For(version) {
		if z.Contains(x, y) {
			return true
		}
	}
	return false
}

func compute(version qrencode.Version) []Zone {
	size := int(version)*4 + 17
	zones := make([]Zone, 0, 24)

	// Three finder patterns, 7x7 each.
	zones = append(zones,
		Zone{FinderPattern, 0, 0, 7, 7},
		Zone{FinderPattern, size - 7, 0, 7, 7},
		Zone{FinderPattern, 0, size - 7, 7, 7},
	)

	// Separators, one module wide, around each finder pattern.
	zones = append(zones,
		Zone{Separator, 7, 0, 1, 8},
		Zone{Separator, 0, 7, 7, 1},
		Zone{Separator, size - 8, 0, 1, 8},
		Zone{Separator, size - 7, 7, 7, 1},
		Zone{Separator, 7, size - 8, 1, 8},
		Zone{Separator, 0, size - 8, 7, 1},
	)

	// Timing patterns: row 6 and column 6, excluding finder overlap.
	zones = append(zones,
		Zone{TimingPattern, 8, 6, size - 16, 1},
		Zone{TimingPattern, 6, 8, 1, size - 16},
	)

	// Format info: two L-shaped strips plus the fixed dark module.
	zones = append(zones,
		Zone{FormatInfo, 0, 8, 9, 1},
		Zone{FormatInfo, 8, 0, 1, 8},
		Zone{FormatInfo, 8, size - 8, 1, 1}, // The fixed dark module.
		Zone{FormatInfo, size - 8, 8, 8, 1},
		Zone{FormatInfo, 8, size - 7, 1, 7},
	)

	if version >= 7 {
		zones = append(zones,
			Zone{VersionInfo, size - 11, 0, 3, 6},
			Zone{VersionInfo, 0, size - 11, 6, 3},
		)
	}

	if version >= 2 {
		positions := qrencode.AlignmentPatternPositions(version)
		n := len(positions)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == 0 && j == 0 || i == 0 && j == n-1 || i == n-1 && j == 0 {
					continue // The three finder corners never get an alignment pattern.
				}
				row := int(positions[j])
				col := int(positions[i])
				zones = append(zones, Zone{AlignmentPattern, col - 2, row - 2, 5, 5})
			}
		}
	}

	return zones
}
