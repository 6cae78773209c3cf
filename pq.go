package gridastar

import "container/heap"

// PriorityQueueItem is one frontier entry. It refers to a grid cell by arena
// index rather than holding the cell itself.
type PriorityQueueItem struct {
	CellIndex int
	FCost     float64
	Sequence  uint64
}

// PriorityQueue orders items by FCost, then by insertion sequence.
// Positions maps a cell index to its slot in the heap, -1 when absent.
type PriorityQueue struct {
	items     []PriorityQueueItem
	Positions []int
}

func (queue *PriorityQueue) Len() int { return len(queue.items) }
func (queue *PriorityQueue) Less(i, j int) bool {
	if queue.items[i].FCost != queue.items[j].FCost {
		return queue.items[i].FCost < queue.items[j].FCost
	}
	return queue.items[i].Sequence < queue.items[j].Sequence
}
func (queue *PriorityQueue) Swap(i, j int) {
	queue.items[i], queue.items[j] = queue.items[j], queue.items[i]
	queue.Positions[queue.items[i].CellIndex] = i
	queue.Positions[queue.items[j].CellIndex] = j
}

func (queue *PriorityQueue) Push(x any) {
	item := x.(PriorityQueueItem)
	queue.Positions[item.CellIndex] = len(queue.items)
	queue.items = append(queue.items, item)
}

func (queue *PriorityQueue) Pop() any {
	n := len(queue.items)
	item := queue.items[n-1]
	queue.items = queue.items[:n-1]
	queue.Positions[item.CellIndex] = -1
	return item
}

// frontier is the open set of one search run.
type frontier struct {
	queue    PriorityQueue
	sequence uint64
}

func newFrontier(cellCount int) *frontier {
	positions := make([]int, cellCount)
	for i := range positions {
		positions[i] = -1
	}
	f := &frontier{queue: PriorityQueue{Positions: positions}}
	heap.Init(&f.queue)
	return f
}

func (f *frontier) Len() int { return f.queue.Len() }

func (f *frontier) contains(cellIndex int) bool { return f.queue.Positions[cellIndex] >= 0 }

// upsert inserts the cell or re-keys it in place. A re-keyed entry takes a new
// sequence number, so it orders exactly as if removed and reinserted.
func (f *frontier) upsert(cellIndex int, fCost float64) {
	f.sequence++
	if pos := f.queue.Positions[cellIndex]; pos >= 0 {
		f.queue.items[pos].FCost = fCost
		f.queue.items[pos].Sequence = f.sequence
		heap.Fix(&f.queue, pos)
		return
	}
	heap.Push(&f.queue, PriorityQueueItem{CellIndex: cellIndex, FCost: fCost, Sequence: f.sequence})
}

func (f *frontier) pop() int {
	return heap.Pop(&f.queue).(PriorityQueueItem).CellIndex
}
