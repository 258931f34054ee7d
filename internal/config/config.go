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

// Package config loads the settings an actor service needs to stand up a
// StateTable and its replicator: an ActorStateProviderSettings-shaped
// document, named per internal/naming, in either TOML or YAML.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/keepstate-project/keepstate/internal/naming"
)

// ReplicatorSecurity configures the credential type used on the replicator
// endpoint (see naming.CredentialTypeKey, which names this same setting
// when it arrives through Overrides instead of the document body).
type ReplicatorSecurity struct {
	CredentialType string `toml:"credential_type" yaml:"credential_type"`
}

// Replicator configures the replicator endpoint this state table's
// mutations flow through.
type Replicator struct {
	Endpoint   string             `toml:"endpoint" yaml:"endpoint"`
	Security   ReplicatorSecurity `toml:"security" yaml:"security"`
	BatchSize  int                `toml:"batch_size" yaml:"batch_size"`
	AckTimeout time.Duration      `toml:"ack_timeout" yaml:"ack_timeout"`
}

// Transport configures the listen address the actor service's endpoints
// bind to.
type Transport struct {
	ListenAddress string `toml:"listen_address" yaml:"listen_address"`
}

// LocalStore configures the (non-goal: durable) local checkpoint directory
// used by an embedder that layers its own persistence above the table.
type LocalStore struct {
	Directory string `toml:"directory" yaml:"directory"`
}

// ActorStateProviderSettings is the root settings document for one actor
// service's state table, identified by the actor interface name it was
// derived from.
type ActorStateProviderSettings struct {
	ActorInterfaceName string `toml:"actor_interface_name" yaml:"actor_interface_name"`
	ApplicationName    string `toml:"application_name" yaml:"application_name"`

	Replicator Replicator `toml:"replicator" yaml:"replicator"`
	Transport  Transport  `toml:"transport" yaml:"transport"`
	LocalStore LocalStore `toml:"local_store" yaml:"local_store"`

	// SnapshotBatchSize bounds how many entries SnapshotUpTo's caller
	// streams per batch when building a secondary.
	SnapshotBatchSize int `toml:"snapshot_batch_size" yaml:"snapshot_batch_size"`

	// Overrides mirrors a Service Fabric-style config-override document:
	// section name -> parameter name -> value. Load applies the two
	// overrides the naming package names (replicator security's
	// CredentialType, and the state-provider override) on top of whatever
	// the document body already set; any other section is left for the
	// embedder to consult directly.
	Overrides map[string]map[string]string `toml:"overrides" yaml:"overrides"`

	// ActorStateProviderOverride is the effective actor-state-provider type
	// name after applying Overrides[naming.StateProviderOverrideSection][naming.StateProviderOverrideKey],
	// if present. Empty means no override was supplied.
	ActorStateProviderOverride string `toml:"-" yaml:"-"`
}

// applyOverrides resolves the two config-override lookups spec §6 names
// against s.Overrides, mutating s in place. It must run after the document
// body is parsed (so a document-supplied value has a default to override)
// but is itself independent of format (TOML vs YAML).
func (s *ActorStateProviderSettings) applyOverrides() {
	names := s.Names()

	if section, ok := s.Overrides[names.ReplicatorSecurityConfig]; ok {
		if v, ok := section[naming.CredentialTypeKey]; ok {
			s.Replicator.Security.CredentialType = v
		}
	}

	if section, ok := s.Overrides[naming.StateProviderOverrideSection]; ok {
		if v, ok := section[naming.StateProviderOverrideKey]; ok {
			s.ActorStateProviderOverride = v
		}
	}
}

// Names derives the canonical name set (spec §6) for this settings
// document's actor interface.
func (s ActorStateProviderSettings) Names() naming.Names {
	return naming.Derive(s.ActorInterfaceName)
}

// ApplicationURI derives the fabric:/ application URI for this settings
// document.
func (s ActorStateProviderSettings) ApplicationURI() string {
	return naming.ApplicationURI(s.ApplicationName)
}

func defaults() ActorStateProviderSettings {
	return ActorStateProviderSettings{
		Replicator: Replicator{
			BatchSize:  64,
			AckTimeout: 30 * time.Second,
		},
		SnapshotBatchSize: 256,
	}
}

// Load reads and parses an ActorStateProviderSettings document from path on
// fs. The format (TOML or YAML) is selected by path's extension
// (.toml, or .yaml/.yml).
func Load(fs afero.Fs, path string) (ActorStateProviderSettings, error) {
	settings := defaults()

	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return settings, errors.Wrapf(err, "config: read %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(raw, &settings); err != nil {
			return settings, errors.Wrapf(err, "config: parse %s as TOML", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &settings); err != nil {
			return settings, errors.Wrapf(err, "config: parse %s as YAML", path)
		}
	default:
		return settings, errors.Errorf("config: unrecognized extension %q for %s (want .toml, .yaml, or .yml)", ext, path)
	}

	settings.applyOverrides()
	return settings, nil
}
