package registry

// Status tags the outcome of one registry operation. Resolution tiers switch
// on the tag: NotFound advances the fallback chain the same way a transport
// error does, but the two are logged differently.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not-found"
	case StatusTransportError:
		return "transport-error"
	default:
		return "unknown"
	}
}

// Result carries one operation's payload alongside its outcome tag. Value is
// only meaningful when Status is StatusFound.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

func (r Result[T]) Found() bool { return r.Status == StatusFound }

func found[T any](v T) Result[T] {
	return Result[T]{Status: StatusFound, Value: v}
}

func notFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

func transportError[T any](err error) Result[T] {
	return Result[T]{Status: StatusTransportError, Err: err}
}
