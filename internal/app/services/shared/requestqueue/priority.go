package requestqueue

import (
	"clinic-portal-service/internal/pkg/constvars"
	"container/heap"
	"context"
	"strings"
)

type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// WithPriority tags ctx so calls made on its behalf are queued at p.
func WithPriority(ctx context.Context, p Priority) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_REQUEST_PRIORITY_KEY, p)
}

// PriorityFromContext returns the priority set by WithPriority, or PriorityNormal.
func PriorityFromContext(ctx context.Context) Priority {
	if p, ok := ctx.Value(constvars.CONTEXT_REQUEST_PRIORITY_KEY).(Priority); ok {
		return p
	}
	return PriorityNormal
}

type item struct {
	priority Priority
	seq      uint64
	start    chan struct{}
	// index is -1 once the item has left the heap
	index int
}

// pending orders items by priority, then by submission order.
type pending []*item

var _ heap.Interface = (*pending)(nil)

func (p pending) Len() int { return len(p) }

func (p pending) Less(i, j int) bool {
	if p[i].priority != p[j].priority {
		return p[i].priority > p[j].priority
	}
	return p[i].seq < p[j].seq
}

func (p pending) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
	p[i].index = i
	p[j].index = j
}

func (p *pending) Push(x any) {
	it := x.(*item)
	it.index = len(*p)
	*p = append(*p, it)
}

func (p *pending) Pop() any {
	old := *p
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*p = old[:n-1]
	return it
}
