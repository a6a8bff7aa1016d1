// Package hostver maps host application release names to their addon
// API versions. Packaging tools branch on the release because each
// host generation consumes its own addon repository tree.
package hostver

import (
	"fmt"
	"strings"
)

// Host is a host application release, identified by its API version.
type Host int

// Known host releases, oldest first.
const (
	Leia   Host = 18
	Matrix Host = 19
	Nexus  Host = 20
	Omega  Host = 21
)

var names = map[Host]string{
	Leia:   "leia",
	Matrix: "matrix",
	Nexus:  "nexus",
	Omega:  "omega",
}

// Parse returns the host release for a name like "matrix". Matching is
// case-insensitive.
func Parse(name string) (Host, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for h, hn := range names {
		if hn == n {
			return h, nil
		}
	}
	return 0, fmt.Errorf("hostver: unknown host release %q", name)
}

// All returns the known releases, oldest first.
func All() []Host {
	return []Host{Leia, Matrix, Nexus, Omega}
}

func (h Host) String() string {
	if n, ok := names[h]; ok {
		return n
	}
	return fmt.Sprintf("api-%d", int(h))
}

// APIVersion returns the numeric addon API version of the release.
func (h Host) APIVersion() int { return int(h) }

// AtLeast reports whether h is the given release or a newer one.
func (h Host) AtLeast(min Host) bool { return h >= min }
