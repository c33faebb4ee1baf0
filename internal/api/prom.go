package api

import (
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/logrelay/logrelay/internal/ship"
)

// writePrometheus encodes the pipeline snapshot as Prometheus text
// exposition. Counters map to the two lifetime batch counters; buffer depth
// and last-flush time are gauges.
func writePrometheus(w http.ResponseWriter, snap ship.Snapshot) {
	fams := []*dto.MetricFamily{
		counter("logrelay_batches_shipped_total",
			"Batches successfully delivered to the ingestion backend.",
			float64(snap.BatchesShipped)),
		counter("logrelay_batches_failed_total",
			"Batch delivery attempts that failed.",
			float64(snap.BatchesFailed)),
		gauge("logrelay_buffer_depth",
			"Log entries currently queued for delivery.",
			float64(snap.BufferDepth)),
	}
	if snap.LastFlush != nil {
		fams = append(fams, gauge("logrelay_last_flush_timestamp_seconds",
			"Unix time of the last successful flush.",
			float64(snap.LastFlush.Unix())))
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, f := range fams {
		if err := enc.Encode(f); err != nil {
			slog.Error("api: encode metric family", "family", f.GetName(), "err", err)
			return
		}
	}
}

func counter(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(value)}}},
	}
}

func gauge(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(value)}}},
	}
}
