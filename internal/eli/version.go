package eli

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// Version is a three-part element or protocol version.
type Version struct {
	Major    int
	Minor    int
	Tertiary int
}

// ProtocolVersion is the ELI version stamped on every descriptor registered
// through this package.
var ProtocolVersion = Version{Major: 0, Minor: 9, Tertiary: 0}

// Unknown is used for provenance fields that a legacy library cannot supply.
const Unknown = "UNKNOWN"

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Tertiary)
}

// IsZero reports whether v is the unset version.
func (v Version) IsZero() bool {
	return v == Version{}
}

var (
	buildDateOnce sync.Once
	buildDate     string
)

// BuildDate returns the VCS commit time embedded in the binary, falling back
// to the process start time when the binary carries no VCS stamp.
func BuildDate() string {
	buildDateOnce.Do(func() {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.time" && s.Value != "" {
					buildDate = s.Value
					return
				}
			}
		}
		start := time.Now()
		if fi, err := os.Stat(os.Args[0]); err == nil {
			start = fi.ModTime()
		}
		buildDate = start.UTC().Format(time.RFC3339)
	})
	return buildDate
}
