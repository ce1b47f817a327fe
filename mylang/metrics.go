package mylang

import (
	"fmt"
	"io"
	"time"
)

// / The primary interface to metrics. Use
// /   defer METRIC_RECORD("foobar")()
// / at the top of a function to get timing stats recorded for each call of the
// / function. Does nothing unless GMetrics is set (-d stats).
func METRIC_RECORD(name string) func() {
	if GMetrics == nil {
		return func() {}
	}
	metric := GMetrics.NewMetric(name)
	start := HighResTimer()
	return func() {
		metric.count++
		metric.sum += HighResTimer() - start
	}
}

// GMetrics is not safe for concurrent runs; only the CLI enables it.
var GMetrics *Metrics = nil

type Metric struct {
	name string
	/// Number of times we've hit the code path.
	count int
	/// Total time (in nanoseconds) we've spent on the code path.
	sum int64
}

func (this *Metric) Count() int { return this.count }

type Metrics struct {
	metrics_ []*Metric
	by_name_ map[string]*Metric
}

func NewMetrics() *Metrics {
	return &Metrics{by_name_: map[string]*Metric{}}
}

// / Return the metric called |name|, creating it on first use.
func (this *Metrics) NewMetric(name string) *Metric {
	if metric, ok := this.by_name_[name]; ok {
		return metric
	}
	metric := &Metric{name: name}
	this.metrics_ = append(this.metrics_, metric)
	this.by_name_[name] = metric
	return metric
}

func (this *Metrics) Lookup(name string) *Metric {
	return this.by_name_[name]
}

// / Print a summary report to |w|.
func (this *Metrics) Report(w io.Writer) {
	width := 0
	for _, i := range this.metrics_ {
		width = max(len(i.name), width)
	}

	fmt.Fprintf(w, "%-*s\t%-6s\t%-9s\t%s\n", width,
		"metric", "count", "avg (us)", "total (ms)")
	for _, metric := range this.metrics_ {
		micros := TimerToMicros(metric.sum)
		total := float64(micros) / float64(1000)
		avg := float64(micros) / float64(metric.count)
		fmt.Fprintf(w, "%-*s\t%-6d\t%-8.1f\t%.1f\n", width, metric.name, metric.count, avg, total)
	}
}

// / A simple stopwatch which returns the time
// / in seconds since Restart() was called.
type Stopwatch struct {
	started_ int64
}

func NewStopwatch() *Stopwatch {
	ret := Stopwatch{}
	ret.Restart()
	return &ret
}

// / Seconds since Restart() call.
func (this *Stopwatch) Elapsed() float64 {
	return 1e-6 * float64(TimerToMicros(HighResTimer()-this.started_))
}

func (this *Stopwatch) Restart() {
	this.started_ = HighResTimer()
}

// / Nanosecond timer value that fits into an int64.
func HighResTimer() int64 {
	return time.Now().UnixNano()
}

func TimerToMicros(dt int64) int64 {
	return time.Duration(dt).Microseconds()
}

func GetTimeMillis() int64 {
	return TimerToMicros(HighResTimer()) / 1000
}
