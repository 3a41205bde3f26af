package timing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type timingKey struct{}

type TimingInfo struct {
	Operation string
	StartTime time.Time
}

// Tracker records durations per named operation
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		now:     time.Now,
	}
}

func (tt *Tracker) StartTiming(operation string) context.Context {
	return context.WithValue(context.Background(), timingKey{}, TimingInfo{
		Operation: operation,
		StartTime: tt.now(),
	})
}

// EndTiming records the elapsed time for the operation started in ctx
// and returns it. Contexts not produced by StartTiming are ignored.
func (tt *Tracker) EndTiming(ctx context.Context) time.Duration {
	info, ok := ctx.Value(timingKey{}).(TimingInfo)
	if !ok {
		return 0
	}

	duration := tt.now().Sub(info.StartTime)

	tt.mu.Lock()
	tt.timings[info.Operation] = append(tt.timings[info.Operation], duration)
	tt.mu.Unlock()

	return duration
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

// Report formats count, average and last duration for every operation.
func (tt *Tracker) Report() string {
	tt.mu.RLock()
	operations := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		operations = append(operations, op)
	}
	tt.mu.RUnlock()

	if len(operations) == 0 {
		return "No operations recorded yet."
	}
	sort.Strings(operations)

	var b strings.Builder
	for _, op := range operations {
		timings := tt.GetTimings(op)
		fmt.Fprintf(&b, "%s: %d run(s), avg %s, last %s\n",
			op, len(timings),
			tt.GetAverageTime(op).Round(time.Millisecond),
			timings[len(timings)-1].Round(time.Millisecond))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.timings = make(map[string][]time.Duration)
	} else {
		delete(tt.timings, operation)
	}
}
