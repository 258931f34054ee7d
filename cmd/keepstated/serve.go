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

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keepstate-project/keepstate/internal/config"
	"github.com/keepstate-project/keepstate/internal/metrics"
	"github.com/keepstate-project/keepstate/internal/seqmath"
	"github.com/keepstate-project/keepstate/internal/statetable"
)

// snapshotEntry is the wire shape of one entry returned by
// /types/{type}/snapshot.
type snapshotEntry struct {
	Key      string `json:"key"`
	Value    []byte `json:"value,omitempty"`
	Seq      uint64 `json:"seq"`
	IsDelete bool   `json:"is_delete,omitempty"`
}

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a state table behind a debug HTTP surface",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to an ActorStateProviderSettings document (.toml or .yaml)")
	_ = serveCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	settings, err := config.Load(afero.NewOsFs(), serveConfigPath)
	if err != nil {
		return err
	}
	names := settings.Names()
	instance := uuid.New().String()

	log.Info("loaded settings",
		zap.String("actor", names.ActorName),
		zap.String("service", names.ServiceName),
		zap.String("application_uri", settings.ApplicationURI()),
		zap.String("instance", instance))

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry, instance)
	tbl := statetable.New[string, string](
		statetable.WithLogger[string, string](log),
		statetable.WithMetrics[string, string](recorder),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/types/{type}/keys", func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		writeJSON(w, tbl.Keys(typ))
	})
	router.Get("/types/{type}/keys/{key}", func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		key := chi.URLParam(r, "key")
		value, ok := tbl.TryGet(typ, key)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(value)
	})
	router.Get("/types/{type}/snapshot", func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		maxSeq, ok := seqmath.ParseUint64(r.URL.Query().Get("max_seq"))
		if !ok {
			http.Error(w, "invalid max_seq", http.StatusBadRequest)
			return
		}
		if maxSeq == 0 {
			maxSeq = tbl.HighestKnownSeq()
		}

		batchSize := settings.SnapshotBatchSize
		if raw := r.URL.Query().Get("batch_size"); raw != "" {
			n, ok := seqmath.ParseUint64(raw)
			if !ok {
				http.Error(w, "invalid batch_size", http.StatusBadRequest)
				return
			}
			batchSize = int(n)
		}

		enum := tbl.SnapshotUpTo(maxSeq)
		var entries []snapshotEntry
		var entryCount uint64
		for {
			e, ok := enum.PeekNext()
			if !ok {
				break
			}
			if e.Type == typ {
				entries = append(entries, snapshotEntry{Key: e.Key, Value: e.Value, Seq: e.Seq, IsDelete: e.IsDelete})
				var overflowed bool
				entryCount, overflowed = seqmath.SafeAdd(entryCount, 1)
				if overflowed {
					http.Error(w, "snapshot entry count overflowed", http.StatusInternalServerError)
					return
				}
			}
			enum.MoveNext()
		}

		batches := seqmath.CeilDiv(len(entries), batchSize)
		w.Header().Set("X-Snapshot-Batches", fmt.Sprintf("%d", batches))
		w.Header().Set("X-Snapshot-Entry-Count", fmt.Sprintf("%d", entryCount))
		writeJSON(w, entries)
	})

	addr := settings.Transport.ListenAddress
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("debug surface listening", zap.String("address", addr))
	return server.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
