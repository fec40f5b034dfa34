package services_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/SscSPs/shop_ledger_app/internal/core/services"
	"github.com/SscSPs/shop_ledger_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSerial_ConcurrentCallersGetDistinctValues(t *testing.T) {
	ctx := context.Background()
	allocator := services.NewSerialAllocator(memory.NewStore())
	for i := 0; i < 10; i++ {
		_, err := allocator.NextSerial(ctx, domain.VariantSales)
		require.NoError(t, err)
	}

	results := make([]int64, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			serial, err := allocator.NextSerial(ctx, domain.VariantSales)
			assert.NoError(t, err)
			results[i] = serial
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	assert.Equal(t, []int64{11, 12}, results)
}

func TestNextSerial_VariantsAreIndependent(t *testing.T) {
	ctx := context.Background()
	allocator := services.NewSerialAllocator(memory.NewStore())

	s1, err := allocator.NextSerial(ctx, domain.VariantSales)
	require.NoError(t, err)
	s2, err := allocator.NextSerial(ctx, domain.VariantSales)
	require.NoError(t, err)
	r1, err := allocator.NextSerial(ctx, domain.VariantRental)
	require.NoError(t, err)

	assert.Equal(t, int64(1), s1)
	assert.Equal(t, int64(2), s2)
	assert.Equal(t, int64(1), r1)
}

func TestNextSerial_UnknownVariant(t *testing.T) {
	_, err := services.NewSerialAllocator(memory.NewStore()).NextSerial(context.Background(), domain.Variant("lease"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNextSerial_ManyConcurrentCallersStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	allocator := services.NewSerialAllocator(memory.NewStore())

	const callers = 40
	seen := make(chan int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serial, err := allocator.NextSerial(ctx, domain.VariantRental)
			assert.NoError(t, err)
			seen <- serial
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool, callers)
	for s := range seen {
		assert.False(t, unique[s], "serial %d handed out twice", s)
		unique[s] = true
	}
	assert.Len(t, unique, callers)
	for i := int64(1); i <= callers; i++ {
		assert.True(t, unique[i], "serial %d missing", i)
	}
}
