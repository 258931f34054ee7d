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

package naming

import "testing"

func TestDeriveActorName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IMyActor", "MyActor"},
		{"IMy", "MyActor"},
		{"My", "MyActor"},
		{"myactor", "myactor"}, // already suffixed, case-insensitively
		{"Ix", "IxActor"},      // second char lowercase: not an interface prefix
		{"IX", "XActor"},       // second char uppercase: stripped
		{"I", "IActor"},        // no second char to inspect: not stripped
	}
	for _, c := range cases {
		if got := Derive(c.in).ActorName; got != c.want {
			t.Errorf("Derive(%q).ActorName = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDeriveFullNameSet(t *testing.T) {
	n := Derive("IMyActor")
	want := map[string]string{
		"ServiceName":                "MyActorService",
		"ServiceType":                "MyActorServiceType",
		"Endpoint":                   "MyActorServiceEndpoint",
		"EndpointV2":                 "MyActorServiceEndpointV2",
		"EndpointV2_1":               "MyActorServiceEndpointV2_1",
		"ReplicatorEndpoint":         "MyActorServiceReplicatorEndpoint",
		"ReplicatorConfig":           "MyActorServiceReplicatorConfig",
		"ReplicatorSecurityConfig":   "MyActorServiceReplicatorSecurityConfig",
		"ActorStateProviderSettings": "MyActorServiceActorStateProviderSettings",
		"TransportSettings":          "MyActorServiceTransportSettings",
		"LocalStoreConfig":           "MyActorServiceLocalStoreConfig",
	}
	got := map[string]string{
		"ServiceName":                n.ServiceName,
		"ServiceType":                n.ServiceType,
		"Endpoint":                   n.Endpoint,
		"EndpointV2":                 n.EndpointV2,
		"EndpointV2_1":               n.EndpointV2_1,
		"ReplicatorEndpoint":         n.ReplicatorEndpoint,
		"ReplicatorConfig":           n.ReplicatorConfig,
		"ReplicatorSecurityConfig":   n.ReplicatorSecurityConfig,
		"ActorStateProviderSettings": n.ActorStateProviderSettings,
		"TransportSettings":          n.TransportSettings,
		"LocalStoreConfig":           n.LocalStoreConfig,
	}
	for k, want := range want {
		if got[k] != want {
			t.Errorf("%s = %q, want %q", k, got[k], want)
		}
	}
}

func TestApplicationURI(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "fabric:/FabricActorApp"},
		{"MyApp", "fabric:/MyApp"},
		{"MyApp/", "fabric:/MyApp"},
		{"fabric:/MyApp", "fabric:/MyApp"},
		{"FABRIC:/MyApp/", "FABRIC:/MyApp"},
	}
	for _, c := range cases {
		if got := ApplicationURI(c.in); got != c.want {
			t.Errorf("ApplicationURI(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestServiceURI(t *testing.T) {
	got := ServiceURI("fabric:/MyApp", "MyActorService")
	want := "fabric:/MyApp/MyActorService"
	if got != want {
		t.Errorf("ServiceURI = %q, want %q", got, want)
	}
}

// TestSpecLiteralConstants pins the literal name-derivation constants spec
// §6 names verbatim, since config.go's override resolution matches three of
// them against the section and parameter names a decoded document carries.
func TestSpecLiteralConstants(t *testing.T) {
	cases := map[string]string{
		CodePackage:                  "Code",
		ConfigPackage:                "Config",
		CredentialTypeKey:            "CredentialType",
		StateProviderOverrideSection: "ActorStateProviderOverride",
		StateProviderOverrideKey:     "ActorStateProvider",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
