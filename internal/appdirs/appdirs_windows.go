//go:build windows

package appdirs

import "errors"

func RuntimeDir() (string, error) {
	return "", errors.New("runtime dirs are not supported on windows yet")
}

// RendezvousDir is the named pipe namespace root on windows; pipes are not
// filesystem objects there.
func RendezvousDir() (string, error) {
	return `\\.\pipe`, nil
}
