package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettleAll_PreservesOrderAndAppliesFallback(t *testing.T) {
	results := settleAll(context.Background(), 5,
		func(_ context.Context, i int) (int, error) {
			if i%2 == 1 {
				return 0, errors.New("odd failure")
			}
			return i * 10, nil
		},
		func(i int, _ error) int {
			return -i
		},
	)

	assert.Equal(t, []int{0, -1, 20, -3, 40}, results)
}

func TestSettleAll_Empty(t *testing.T) {
	results := settleAll(context.Background(), 0,
		func(_ context.Context, _ int) (string, error) { return "", nil },
		func(_ int, _ error) string { return "" },
	)
	assert.Empty(t, results)
}
