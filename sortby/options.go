package sortby

const (
	defaultName              = "default"
	defaultParallelThreshold = 1024
)

type config struct {
	name              string
	parallelism       int
	parallelThreshold int
	cacheKeys         bool
}

func newConfig(opts []Option) config {
	cfg := config{
		name:              defaultName,
		parallelism:       1,
		parallelThreshold: defaultParallelThreshold,
		cacheKeys:         true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Option configures how a Builder materializes its result.
type Option func(*config)

// WithName labels the sort in metrics, traces and logs.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithParallelism extracts keys on up to workers goroutines once the input
// reaches the parallel threshold. Comparison and sorting stay sequential, so
// the result is identical to a sequential run. Values below 2 disable it.
func WithParallelism(workers int) Option {
	return func(c *config) {
		c.parallelism = max(workers, 1)
	}
}

// WithParallelThreshold sets the minimum number of elements for parallel key
// extraction. The default is 1024.
func WithParallelThreshold(elements int) Option {
	return func(c *config) {
		c.parallelThreshold = max(elements, 0)
	}
}

// WithKeyCache controls decorate-sort-undecorate. Enabled (the default), each
// key is extracted exactly once per element before sorting. Disabled, keys
// are extracted again on every comparison, which only pays off for trivially
// cheap extractors. Extractors must be pure either way.
func WithKeyCache(enabled bool) Option {
	return func(c *config) {
		c.cacheKeys = enabled
	}
}
