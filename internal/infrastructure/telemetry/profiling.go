package telemetry

import (
	"context"
	"maps"
	"slices"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	LabelRoute  = "route"
	LabelMethod = "method"
	LabelArea   = "area"
)

// WithProfilingLabels runs fn with pprof labels attached, so CPU samples
// taken inside fn can be filtered in Pyroscope. Empty values are skipped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := make([]string, 0, len(labels)*2)
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		if labels[k] == "" {
			continue
		}
		pairs = append(pairs, k, labels[k])
	}
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}
