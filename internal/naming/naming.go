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

// Package naming derives the canonical set of service, endpoint, and config
// names an actor interface type maps to (spec §6). It has no dependency on
// the state table itself — it's a pure collaborator the hosting shell and
// internal/config consult when wiring a new actor type in.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultServicePackagePrefix is used when the embedder doesn't supply
	// its own application/service-package naming.
	DefaultServicePackagePrefix = "FabricActorService"
	// DefaultApplicationPrefix is the default application name prefix.
	DefaultApplicationPrefix = "FabricActorApp"

	CodePackage   = "Code"
	ConfigPackage = "Config"

	CredentialTypeKey = "CredentialType"

	StateProviderOverrideSection = "ActorStateProviderOverride"
	StateProviderOverrideKey     = "ActorStateProvider"
)

// Names is the full set of derived names for one actor interface type.
type Names struct {
	ActorName string

	ServiceName string
	ServiceType string

	Endpoint           string
	EndpointV2         string
	EndpointV2_1       string
	ReplicatorEndpoint string

	ReplicatorConfig         string
	ReplicatorSecurityConfig string

	ActorStateProviderSettings string
	TransportSettings          string
	LocalStoreConfig           string

	ServicePackage string
}

// Derive computes every canonical name for an actor interface type name,
// which may be given either as an interface name (e.g. "IMyActor") or a
// bare actor name (e.g. "MyActor" or "My").
func Derive(interfaceOrActorName string) Names {
	actorName := ensureActorSuffix(stripInterfacePrefix(interfaceOrActorName))
	service := actorName + "Service"

	return Names{
		ActorName: actorName,

		ServiceName: service,
		ServiceType: service + "Type",

		Endpoint:           service + "Endpoint",
		EndpointV2:         service + "EndpointV2",
		EndpointV2_1:       service + "EndpointV2_1",
		ReplicatorEndpoint: service + "ReplicatorEndpoint",

		ReplicatorConfig:         service + "ReplicatorConfig",
		ReplicatorSecurityConfig: service + "ReplicatorSecurityConfig",

		ActorStateProviderSettings: service + "ActorStateProviderSettings",
		TransportSettings:          service + "TransportSettings",
		LocalStoreConfig:           service + "LocalStoreConfig",

		ServicePackage: DefaultServicePackagePrefix + "Pkg",
	}
}

// stripInterfacePrefix strips a leading "I" only when a second character
// exists and it is not lowercase — "IFoo" -> "Foo", but "Ix" and "foo" are
// left alone (the former because a lowercase second letter reads as a
// short identifier, not an interface prefix; the latter because there's no
// leading "I" to strip at all).
func stripInterfacePrefix(name string) string {
	if len(name) < 2 || name[0] != 'I' {
		return name
	}
	second, _ := utf8.DecodeRuneInString(name[1:])
	if unicode.IsLower(second) {
		return name
	}
	return name[1:]
}

// ensureActorSuffix appends "Actor" unless name already ends with it,
// case-insensitively.
func ensureActorSuffix(name string) string {
	if strings.HasSuffix(strings.ToLower(name), "actor") {
		return name
	}
	return name + "Actor"
}

// ApplicationURI normalizes an application name into a fabric:/ URI: the
// fabric:/ prefix is preserved if already present (case-insensitively),
// otherwise prepended, and any trailing slash is trimmed before
// concatenation. An empty name falls back to DefaultApplicationPrefix.
func ApplicationURI(appName string) string {
	if appName == "" {
		appName = DefaultApplicationPrefix
	}
	appName = strings.TrimSuffix(appName, "/")
	if strings.HasPrefix(strings.ToLower(appName), "fabric:/") {
		return appName
	}
	return "fabric:/" + appName
}

// ServiceURI joins an application URI (as returned by ApplicationURI) with
// a service name.
func ServiceURI(applicationURI, serviceName string) string {
	return strings.TrimSuffix(applicationURI, "/") + "/" + serviceName
}
