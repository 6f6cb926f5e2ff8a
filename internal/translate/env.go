package translate

// Environment answers the host queries the translator needs.
type Environment interface {
	// WorkingDir returns the absolute current working directory.
	WorkingDir() (string, error)
}

// EnvironmentFunc adapts a plain function to Environment.
type EnvironmentFunc func() (string, error)

func (f EnvironmentFunc) WorkingDir() (string, error) { return f() }

// FixedDir is an Environment whose working directory never changes.
type FixedDir string

func (d FixedDir) WorkingDir() (string, error) { return string(d), nil }

// Host returns the Environment of the running process.
func Host() Environment { return hostEnv{} }

type hostEnv struct{}
