package service

import "fmt"

type fatalError struct {
	err error
}

func (f fatalError) Error() string {
	return fmt.Sprintf("fatal error: %s", f.err)
}

func (f fatalError) Cause() error {
	return f.err
}

// Fatal marks err as one that should stop the run loop.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return fatalError{err: err}
}

func IsFatal(err error) bool {
	return inChain(err, func(err error) bool {
		_, ok := err.(fatalError)
		return ok
	})
}

type permanentError struct {
	err error
}

func (p permanentError) Error() string {
	return fmt.Sprintf("permanent failure: %s", p.err)
}

func (p permanentError) Cause() error {
	return p.err
}

// Permanent marks a delivery failure that will not go away on retry;
// the pipeline drops such messages instead of requeueing them.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	return inChain(err, func(err error) bool {
		_, ok := err.(permanentError)
		return ok
	})
}

// inChain walks the Cause() chain of err until match reports true.
func inChain(err error, match func(error) bool) bool {
	type causer interface {
		Cause() error
	}

	for {
		if err == nil {
			return false
		}

		if match(err) {
			return true
		}

		causeErr, ok := err.(causer)
		if !ok {
			return false
		}

		err = causeErr.Cause()
	}
}
