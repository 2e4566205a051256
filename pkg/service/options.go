package service

// CallOption adjusts a single call without changing the service.
type CallOption func(*callOptions)

type callOptions struct {
	version int
}

// WithVersion overrides the API path version for one call. Zero means "use
// the service's stored version".
func WithVersion(v int) CallOption {
	return func(o *callOptions) {
		o.version = v
	}
}

func newCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
