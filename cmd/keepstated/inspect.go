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
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/keepstate-project/keepstate/internal/seqmath"
)

var (
	inspectAddr       string
	inspectType       string
	snapshotMax       string
	snapshotBatchSize uint64
)

// defaultSnapshotBatchSize is parsed once, at init time, from the same
// literal the flag help text documents — so the flag default can never
// drift out of sync with what's printed for it.
var defaultSnapshotBatchSize = seqmath.MustParseUint64("256")

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the live committed keys of a running instance's debug surface",
	RunE:  runInspect,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a seq-bounded snapshot of a running instance's debug surface",
	RunE:  runSnapshot,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectAddr, "addr", "http://127.0.0.1:8080", "base URL of a running keepstated serve instance")
	inspectCmd.Flags().StringVar(&inspectType, "type", "", "type discriminator to list keys for")
	_ = inspectCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(inspectCmd)

	snapshotCmd.Flags().StringVar(&inspectAddr, "addr", "http://127.0.0.1:8080", "base URL of a running keepstated serve instance")
	snapshotCmd.Flags().StringVar(&inspectType, "type", "", "type discriminator to snapshot")
	snapshotCmd.Flags().StringVar(&snapshotMax, "max-seq", "0", "highest seq to include (decimal or 0x-prefixed hex); 0 means unbounded")
	snapshotCmd.Flags().Uint64Var(&snapshotBatchSize, "batch-size", defaultSnapshotBatchSize, "override the server's configured snapshot batch size for this call")
	_ = snapshotCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	if _, ok := seqmath.ParseUint64(snapshotMax); !ok {
		return fmt.Errorf("inspect: invalid --max-seq %q", snapshotMax)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("%s/types/%s/snapshot?max_seq=%s&batch_size=%d",
		inspectAddr, inspectType, url.QueryEscape(snapshotMax), snapshotBatchSize))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inspect: GET snapshot: unexpected status %s", resp.Status)
	}

	var entries []struct {
		Key      string `json:"key"`
		Value    []byte `json:"value"`
		Seq      uint64 `json:"seq"`
		IsDelete bool   `json:"is_delete"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("inspect: decode snapshot: %w", err)
	}
	fmt.Printf("batches: %s, entries: %s\n", resp.Header.Get("X-Snapshot-Batches"), resp.Header.Get("X-Snapshot-Entry-Count"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"seq", "key", "value", "tombstone"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Seq, e.Key, string(e.Value), e.IsDelete})
	}
	t.Render()
	return nil
}

func runInspect(cmd *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	keys, err := fetchKeys(client, inspectAddr, inspectType)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "key", "value"})
	for i, key := range keys {
		value, err := fetchValue(client, inspectAddr, inspectType, key)
		if err != nil {
			t.AppendRow(table.Row{i + 1, key, fmt.Sprintf("<error: %v>", err)})
			continue
		}
		t.AppendRow(table.Row{i + 1, key, string(value)})
	}
	t.Render()
	return nil
}

func fetchKeys(client *http.Client, addr, typ string) ([]string, error) {
	resp, err := client.Get(addr + "/types/" + typ + "/keys")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inspect: GET keys: unexpected status %s", resp.Status)
	}
	var keys []string
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		return nil, fmt.Errorf("inspect: decode keys: %w", err)
	}
	return keys, nil
}

func fetchValue(client *http.Client, addr, typ, key string) ([]byte, error) {
	resp, err := client.Get(addr + "/types/" + typ + "/keys/" + key)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
