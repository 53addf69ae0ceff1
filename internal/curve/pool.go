package curve

import (
	"sync"

	"market_go/internal/domain"
)

// Group-wide aggregation sums many curves in a row, and every Add/Sub
// rebuilds the union argument grid. The grid is scratch that dies with
// the operation, so it is pooled to keep the resolver hotpath from
// hammering the allocator.
var gridPool = sync.Pool{
	New: func() interface{} {
		s := make([]domain.Price, 0, 64)
		return &s
	},
}

// acquireGrid gets an empty argument-grid scratch slice from the pool.
func acquireGrid() *[]domain.Price {
	return gridPool.Get().(*[]domain.Price)
}

// releaseGrid resets the slice and returns it to the pool. The caller
// must not retain the slice or any subslice of it.
func releaseGrid(grid *[]domain.Price) {
	if grid == nil {
		return
	}
	*grid = (*grid)[:0]
	gridPool.Put(grid)
}
