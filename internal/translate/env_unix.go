//go:build unix

package translate

import "golang.org/x/sys/unix"

// WorkingDir asks the kernel rather than trusting $PWD, which a shell may
// have left stale.
func (hostEnv) WorkingDir() (string, error) {
	return unix.Getwd()
}
