//go:build !unix

package translate

import "os"

func (hostEnv) WorkingDir() (string, error) {
	return os.Getwd()
}
