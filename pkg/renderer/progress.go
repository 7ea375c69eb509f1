package renderer

import (
	"sync/atomic"
)

// ProgressFunc is called once per fully rendered row with the number of rows
// completed so far. It is called from worker goroutines and must be safe for
// concurrent use.
type ProgressFunc func(rowsDone, totalRows int)

// rowProgress counts finished pixels per row
type rowProgress struct {
	remaining []atomic.Int32
	rowsDone  atomic.Int32
	onRow     ProgressFunc
}

func newRowProgress(width, height int, onRow ProgressFunc) *rowProgress {
	p := &rowProgress{
		remaining: make([]atomic.Int32, height),
		onRow:     onRow,
	}
	for y := range p.remaining {
		p.remaining[y].Store(int32(width))
	}
	return p
}

// pixelDone records a finished pixel in row y
func (p *rowProgress) pixelDone(y int) {
	if p.remaining[y].Add(-1) != 0 {
		return
	}

	done := int(p.rowsDone.Add(1))
	total := len(p.remaining)
	logger.Infof("Scanlines remaining: %d", total-done)
	if p.onRow != nil {
		p.onRow(done, total)
	}
}
