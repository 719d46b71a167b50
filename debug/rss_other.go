//go:build !windows

package debug

import "errors"

func workingSet() (uint64, error) {
	return 0, errors.New("debug: working set not available on this platform")
}
