package retry

import "context"

// Action is a function to be performed in a retriable manner
type Action func(ctx context.Context) error

// Retry executes action until it succeeds, ctx is done, or one of the
// strategies declines a further attempt. It returns the number of attempts
// made along with the last error.
//
// Strategies are evaluated in the provided order, so strategies that induce
// delays should be specified last.
func Retry(ctx context.Context, action Action, strategies ...Strategy) (uint, error) {
	for attempts := uint(1); ; attempts++ {
		err := action(ctx)
		if err == nil {
			return attempts, nil
		}

		if ctx.Err() != nil {
			return attempts, err
		}

		for _, s := range strategies {
			if !s(ctx, attempts, err) {
				return attempts, err
			}
		}
	}
}
