// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for customizable behavior and falls
// back to a small in-memory default, so tests only override what they
// exercise:
//
//	s := mocks.NewMockPersonStore()
//	s.DeleteFn = func(ctx context.Context, id int64) error {
//	    return errors.New("disk full")
//	}
//
// All mocks are safe for use from several goroutines.
package mocks
