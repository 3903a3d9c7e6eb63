package metrics

import (
	"sort"
	"sync"
	"time"
)

// Aggregator aggregates metrics in memory, bucketed by hour.
type Aggregator struct {
	mu sync.RWMutex

	// Task metrics: key = "hourBucket|task"
	taskMetrics map[string]*taskBucket

	// Model metrics: key = "hourBucket|model"
	modelMetrics map[string]*modelBucket

	now func() time.Time
}

type taskBucket struct {
	hourBucket    time.Time
	task          string
	requestCount  int64
	successCount  int64
	fallbackCount int64
	latencies     []int64 // in milliseconds
	reasons       map[string]int64
}

type modelBucket struct {
	hourBucket   time.Time
	model        string
	callCount    int64
	successCount int64
	latencySum   int64 // in milliseconds
}

// NewAggregator creates a new metrics aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		taskMetrics:  make(map[string]*taskBucket),
		modelMetrics: make(map[string]*modelBucket),
		now:          time.Now,
	}
}

// RecordTask records a single orchestrator outcome.
func (a *Aggregator) RecordTask(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	hourBucket := truncateToHour(a.now())
	key := makeKey(hourBucket, o.Task)

	bucket, exists := a.taskMetrics[key]
	if !exists {
		bucket = &taskBucket{
			hourBucket: hourBucket,
			task:       o.Task,
			latencies:  make([]int64, 0, 100),
			reasons:    make(map[string]int64),
		}
		a.taskMetrics[key] = bucket
	}

	bucket.requestCount++
	if o.Success {
		bucket.successCount++
	}
	if o.Method == "fallback" {
		bucket.fallbackCount++
	}
	if o.FallbackReason != "" {
		bucket.reasons[o.FallbackReason]++
	}
	bucket.latencies = append(bucket.latencies, o.Latency.Milliseconds())
}

// RecordModelCall records a single vendor call.
func (a *Aggregator) RecordModelCall(model string, latency time.Duration, success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	hourBucket := truncateToHour(a.now())
	key := makeKey(hourBucket, model)

	bucket, exists := a.modelMetrics[key]
	if !exists {
		bucket = &modelBucket{
			hourBucket: hourBucket,
			model:      model,
		}
		a.modelMetrics[key] = bucket
	}

	bucket.callCount++
	if success {
		bucket.successCount++
	}
	bucket.latencySum += latency.Milliseconds()
}

// TaskSnapshot is a closed hour of task metrics.
type TaskSnapshot struct {
	HourBucket    time.Time
	Task          string
	RequestCount  int64
	SuccessCount  int64
	FallbackCount int64
	LatencySumMs  int64
	LatencyP50Ms  int32
	LatencyP95Ms  int32
}

// FlushTaskMetrics returns and clears all task buckets older than beforeHour.
func (a *Aggregator) FlushTaskMetrics(beforeHour time.Time) []*TaskSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	var snapshots []*TaskSnapshot
	for key, bucket := range a.taskMetrics {
		if !bucket.hourBucket.Before(beforeHour) {
			continue
		}
		snapshots = append(snapshots, &TaskSnapshot{
			HourBucket:    bucket.hourBucket,
			Task:          bucket.task,
			RequestCount:  bucket.requestCount,
			SuccessCount:  bucket.successCount,
			FallbackCount: bucket.fallbackCount,
			LatencySumMs:  sumLatencies(bucket.latencies),
			LatencyP50Ms:  int32(percentile(bucket.latencies, 50)),
			LatencyP95Ms:  int32(percentile(bucket.latencies, 95)),
		})
		delete(a.taskMetrics, key)
	}

	for key, bucket := range a.modelMetrics {
		if bucket.hourBucket.Before(beforeHour) {
			delete(a.modelMetrics, key)
		}
	}

	return snapshots
}

// GetCurrentStats returns stats over every bucket held in memory.
func (a *Aggregator) GetCurrentStats() *TaskMetrics {
	return a.GetStats(time.Time{}, time.Time{})
}

// GetStats returns stats over the buckets whose hour lies in [start, end].
// A zero bound is open.
func (a *Aggregator) GetStats(start, end time.Time) *TaskMetrics {
	a.mu.RLock()
	defer a.mu.RUnlock()

	inRange := func(hour time.Time) bool {
		if !start.IsZero() && hour.Before(truncateToHour(start)) {
			return false
		}
		if !end.IsZero() && hour.After(end) {
			return false
		}
		return true
	}

	stats := &TaskMetrics{
		TaskStats:         make(map[string]*TaskStat),
		ModelStats:        make(map[string]*ModelStat),
		FallbacksByReason: make(map[string]int64),
	}

	type taskAgg struct {
		count, success, fallback, latencySum int64
	}
	taskAggs := make(map[string]*taskAgg)

	allLatencies := make([]int64, 0)
	for _, bucket := range a.taskMetrics {
		if !inRange(bucket.hourBucket) {
			continue
		}
		stats.RequestCount += bucket.requestCount
		stats.SuccessCount += bucket.successCount
		stats.FallbackCount += bucket.fallbackCount
		allLatencies = append(allLatencies, bucket.latencies...)
		for reason, n := range bucket.reasons {
			stats.FallbacksByReason[reason] += n
		}

		agg, exists := taskAggs[bucket.task]
		if !exists {
			agg = &taskAgg{}
			taskAggs[bucket.task] = agg
		}
		agg.count += bucket.requestCount
		agg.success += bucket.successCount
		agg.fallback += bucket.fallbackCount
		agg.latencySum += sumLatencies(bucket.latencies)
	}

	for task, agg := range taskAggs {
		stat := &TaskStat{Count: agg.count}
		if agg.count > 0 {
			stat.SuccessRate = float32(agg.success) / float32(agg.count)
			stat.FallbackRate = float32(agg.fallback) / float32(agg.count)
			stat.AvgLatency = time.Duration(agg.latencySum/agg.count) * time.Millisecond
		}
		stats.TaskStats[task] = stat
	}

	type modelAgg struct {
		calls, success, latencySum int64
	}
	modelAggs := make(map[string]*modelAgg)
	for _, bucket := range a.modelMetrics {
		if !inRange(bucket.hourBucket) {
			continue
		}
		agg, exists := modelAggs[bucket.model]
		if !exists {
			agg = &modelAgg{}
			modelAggs[bucket.model] = agg
		}
		agg.calls += bucket.callCount
		agg.success += bucket.successCount
		agg.latencySum += bucket.latencySum
	}
	for model, agg := range modelAggs {
		stat := &ModelStat{Calls: agg.calls}
		if agg.calls > 0 {
			stat.SuccessRate = float32(agg.success) / float32(agg.calls)
			stat.AvgLatency = time.Duration(agg.latencySum/agg.calls) * time.Millisecond
		}
		stats.ModelStats[model] = stat
	}

	stats.LatencyP50 = time.Duration(percentile(allLatencies, 50)) * time.Millisecond
	stats.LatencyP95 = time.Duration(percentile(allLatencies, 95)) * time.Millisecond

	return stats
}

// Helper functions

func truncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func makeKey(hourBucket time.Time, name string) string {
	return hourBucket.Format(time.RFC3339) + "|" + name
}

func sumLatencies(latencies []int64) int64 {
	var sum int64
	for _, l := range latencies {
		sum += l
	}
	return sum
}

func percentile(latencies []int64, p int) int64 {
	if len(latencies) == 0 {
		return 0
	}

	sorted := make([]int64, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}
