package format

// Options controls formatting behavior
type Options struct {
	UseColors bool
	MaxWidth  int // Max command column width (0 = no limit)
	MaxLines  int // Max lines per log box (0 = no limit)
	Compact   bool
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		UseColors: true,
		MaxWidth:  60,
		MaxLines:  0,
	}
}

// PlainOptions returns options for uncolored output, e.g. when piping
func PlainOptions() Options {
	opts := DefaultOptions()
	opts.UseColors = false
	return opts
}
