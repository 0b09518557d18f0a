//go:build !unix

package timing

import "time"

// processCPUTime is unavailable on this platform; CPU readings stay zero.
func processCPUTime() time.Duration {
	return 0
}
