// Copyright 2026 The Keepstate Authors
// This file is part of Keepstate.
//
// Keepstate is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Keepstate is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Keepstate. If not, see <http://www.gnu.org/licenses/>.

// Package metrics wires the state table's internal counters and gauges to
// Prometheus. A *Recorder is optional everywhere it's accepted: a nil
// Recorder is a no-op, so the table never depends on a running registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder records the observable behavior of one StateTable instance.
type Recorder struct {
	StagingDepth    prometheus.Gauge
	CommittedSize   *prometheus.GaugeVec
	PreparesTotal   prometheus.Counter
	CommitsTotal    prometheus.Counter
	CommitsFailed   prometheus.Counter
	AppliesTotal    prometheus.Counter
	SnapshotEntries prometheus.Histogram
}

// NewRecorder builds a Recorder and registers its collectors with reg. The
// instance label distinguishes multiple tables registered against the same
// registry (e.g. one per actor service).
func NewRecorder(reg prometheus.Registerer, instance string) *Recorder {
	constLabels := prometheus.Labels{"instance": instance}

	r := &Recorder{
		StagingDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "keepstate_staging_depth",
			Help:        "Number of entries currently staged, awaiting replication completion.",
			ConstLabels: constLabels,
		}),
		CommittedSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "keepstate_committed_size",
			Help:        "Number of live committed entries, by type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
		PreparesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "keepstate_prepares_total",
			Help:        "Total Prepare calls accepted (seq != 0).",
			ConstLabels: constLabels,
		}),
		CommitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "keepstate_commits_total",
			Help:        "Total Commit calls that resolved without a replication failure.",
			ConstLabels: constLabels,
		}),
		CommitsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "keepstate_commits_failed_total",
			Help:        "Total Commit calls that carried a replication failure.",
			ConstLabels: constLabels,
		}),
		AppliesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "keepstate_applies_total",
			Help:        "Total entries applied directly via the secondary ApplyMany path.",
			ConstLabels: constLabels,
		}),
		SnapshotEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "keepstate_snapshot_entries",
			Help:        "Entries returned per SnapshotUpTo call.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	if reg != nil {
		reg.MustRegister(r.StagingDepth, r.CommittedSize, r.PreparesTotal, r.CommitsTotal, r.CommitsFailed, r.AppliesTotal, r.SnapshotEntries)
	}
	return r
}
