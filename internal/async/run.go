package async

// Result carries the outcome of a background computation
type Result[T any] struct {
	Value T
	Err   error
}

// IsOk returns true if the computation succeeded
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Run will run a function in a goroutine, returning its result via a channel.
func Run[T any](f func() T) <-chan T {
	c := make(chan T, 1)
	go func() {
		c <- f()
	}()
	return c
}

// RunResult is Run for functions that can fail.
func RunResult[T any](f func() (T, error)) <-chan Result[T] {
	return Run(func() Result[T] {
		v, err := f()
		return Result[T]{Value: v, Err: err}
	})
}
