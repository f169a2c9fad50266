package catalog

import (
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func numbered(n int) []model.Product {
	out := make([]model.Product, n)
	for i := range out {
		out[i] = model.Product{ID: int64(i + 1)}
	}
	return out
}

func TestPaginate_ConcatenationRebuildsList(t *testing.T) {
	for _, length := range []int{0, 1, 11, 12, 13, 25} {
		for _, size := range []int{1, 8, 12, 24} {
			list := numbered(length)
			var rebuilt []model.Product
			for idx := 0; ; idx++ {
				page := Paginate(list, PageState{Index: idx, Size: size})
				assert.Equal(t, length, page.TotalElements)
				if len(page.Items) == 0 {
					break
				}
				rebuilt = append(rebuilt, page.Items...)
			}
			assert.Equal(t, ids(list), ids(rebuilt), "length=%d size=%d", length, size)
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	page := Paginate(numbered(5), PageState{Index: 3, Size: 12})
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.TotalElements)

	huge := Paginate(numbered(5), PageState{Index: int(^uint(0) >> 1), Size: 24})
	assert.Empty(t, huge.Items)
}

func TestPaginate_Normalizes(t *testing.T) {
	page := Paginate(numbered(20), PageState{Index: -2, Size: 0})
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, DefaultPageSize, page.Size)
	assert.Len(t, page.Items, DefaultPageSize)
}

func TestPriceCeiling(t *testing.T) {
	assert.True(t, decimal.NewFromInt(1).Equal(PriceCeiling(nil)))
	products := []model.Product{
		{Price: decimal.RequireFromString("0.40")},
		{Price: decimal.RequireFromString("7.01")},
	}
	assert.True(t, decimal.NewFromInt(8).Equal(PriceCeiling(products)))
}
