package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	renderTotal          atomic.Uint64
	renderCacheHitsTotal atomic.Uint64
	renderFailedTotal    atomic.Uint64
	suggestionRunsTotal  atomic.Uint64
	suggestionsTotal     atomic.Uint64
	sanitizerRejects     sync.Map // reason -> *atomic.Uint64

	renderDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncRender counts a rendered document.
func IncRender() {
	renderTotal.Add(1)
}

// IncRenderCacheHit counts a download served from the render cache.
func IncRenderCacheHit() {
	renderCacheHitsTotal.Add(1)
}

// IncRenderFailed counts a render that returned an error.
func IncRenderFailed() {
	renderFailedTotal.Add(1)
}

// AddSuggestions records one suggestion run that produced n suggestions.
func AddSuggestions(n int) {
	suggestionRunsTotal.Add(1)
	if n > 0 {
		suggestionsTotal.Add(uint64(n))
	}
}

// IncSanitizerRejection counts a rejected write, labelled by reason.
func IncSanitizerRejection(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	v, _ := sanitizerRejects.LoadOrStore(reason, new(atomic.Uint64))
	v.(*atomic.Uint64).Add(1)
}

// ObserveRenderDurationMs records a render duration in milliseconds.
func ObserveRenderDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	renderDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_render_total", "Total resume documents rendered", renderTotal.Load())
	writeCounter(&buf, "resume_render_cache_hits_total", "Downloads served from the render cache", renderCacheHitsTotal.Load())
	writeCounter(&buf, "resume_render_failed_total", "Total failed renders", renderFailedTotal.Load())
	writeCounter(&buf, "suggestion_runs_total", "Total suggestion engine runs", suggestionRunsTotal.Load())
	writeCounter(&buf, "suggestions_generated_total", "Total suggestions returned", suggestionsTotal.Load())
	writeLabelledCounter(&buf, "sanitizer_rejections_total", "Resume writes rejected by the sanitizer", "reason", &sanitizerRejects)
	writeHistogram(&buf, "render_duration_ms", "Resume render duration in milliseconds", renderDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabelledCounter(buf *bytes.Buffer, name, help, label string, values *sync.Map) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	var keys []string
	values.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := values.Load(k)
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, v.(*atomic.Uint64).Load())
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts every bucket whose bound covers the value.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
