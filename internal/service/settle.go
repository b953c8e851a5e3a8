package service

import (
	"context"
	"sync"
)

// settleAll launches n independent operations concurrently and blocks until
// every one has resolved. A failed operation is replaced by its fallback
// value instead of failing the batch; result order matches operation index.
func settleAll[T any](
	ctx context.Context,
	n int,
	op func(ctx context.Context, i int) (T, error),
	fallback func(i int, err error) T,
) []T {
	results := make([]T, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			v, err := op(ctx, i)
			if err != nil {
				results[i] = fallback(i, err)
				return
			}
			results[i] = v
		}()
	}
	wg.Wait()

	return results
}
