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

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const tomlDoc = `
actor_interface_name = "IOrderActor"
application_name = "MyApp"

[replicator]
endpoint = "localhost:9000"
batch_size = 128

[replicator.security]
credential_type = "X509"

[transport]
listen_address = "0.0.0.0:8080"
`

const yamlDoc = `
actor_interface_name: IOrderActor
application_name: MyApp
replicator:
  endpoint: localhost:9000
  batch_size: 128
  security:
    credential_type: X509
transport:
  listen_address: 0.0.0.0:8080
`

func TestLoadTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/keepstate/settings.toml", []byte(tomlDoc), 0o644))

	s, err := Load(fs, "/etc/keepstate/settings.toml")
	require.NoError(t, err)
	require.Equal(t, "IOrderActor", s.ActorInterfaceName)
	require.Equal(t, "localhost:9000", s.Replicator.Endpoint)
	require.Equal(t, 128, s.Replicator.BatchSize)
	require.Equal(t, "X509", s.Replicator.Security.CredentialType)
	require.Equal(t, "OrderActorService", s.Names().ServiceName)
	require.Equal(t, "fabric:/MyApp", s.ApplicationURI())
}

func TestLoadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/keepstate/settings.yaml", []byte(yamlDoc), 0o644))

	s, err := Load(fs, "/etc/keepstate/settings.yaml")
	require.NoError(t, err)
	require.Equal(t, "IOrderActor", s.ActorInterfaceName)
	require.Equal(t, "localhost:9000", s.Replicator.Endpoint)
	require.Equal(t, 128, s.Replicator.BatchSize)
}

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/keepstate/minimal.toml", []byte(`actor_interface_name = "IFoo"`), 0o644))

	s, err := Load(fs, "/etc/keepstate/minimal.toml")
	require.NoError(t, err)
	require.Equal(t, 64, s.Replicator.BatchSize)
	require.Equal(t, 256, s.SnapshotBatchSize)
}

func TestLoadAppliesOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := tomlDoc + `
[overrides.OrderActorServiceReplicatorSecurityConfig]
CredentialType = "Kerberos"

[overrides.ActorStateProviderOverride]
ActorStateProvider = "CustomStateProvider"
`
	require.NoError(t, afero.WriteFile(fs, "/etc/keepstate/settings.toml", []byte(doc), 0o644))

	s, err := Load(fs, "/etc/keepstate/settings.toml")
	require.NoError(t, err)
	require.Equal(t, "Kerberos", s.Replicator.Security.CredentialType)
	require.Equal(t, "CustomStateProvider", s.ActorStateProviderOverride)
}

func TestLoadWithoutOverridesLeavesDefaultsAlone(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/keepstate/settings.toml", []byte(tomlDoc), 0o644))

	s, err := Load(fs, "/etc/keepstate/settings.toml")
	require.NoError(t, err)
	require.Equal(t, "X509", s.Replicator.Security.CredentialType)
	require.Empty(t, s.ActorStateProviderOverride)
}

func TestLoadUnrecognizedExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/keepstate/settings.json", []byte(`{}`), 0o644))

	_, err := Load(fs, "/etc/keepstate/settings.json")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "/does/not/exist.toml")
	require.Error(t, err)
}
