package domain

import (
	"slices"
	"strings"
)

// Environment is the runtime environment the site is served from.
type Environment string

const (
	// EnvironmentProduction is the primary static-host deployment.
	EnvironmentProduction Environment = "production"
	// EnvironmentDevelopment is a local development server.
	EnvironmentDevelopment Environment = "development"
	// EnvironmentFilesystem is a page opened straight from the local filesystem.
	EnvironmentFilesystem Environment = "filesystem"
	// EnvironmentUnknown is anything that could not be classified.
	EnvironmentUnknown Environment = "unknown"
)

// EnvironmentAuto asks for the environment to be detected from the site URL.
const EnvironmentAuto = "auto"

// SourceID names a data source the loader can query.
type SourceID string

const (
	// SourceRemote is the remote content store.
	SourceRemote SourceID = "remote"
	// SourceLocal is the local persistent store.
	SourceLocal SourceID = "local"
	// SourceObject is the optional object storage backend.
	SourceObject SourceID = "object"
)

// sourcePriority is hand-tuned per environment. It is data, not logic.
var sourcePriority = map[Environment][]SourceID{
	EnvironmentProduction:  {SourceRemote, SourceLocal, SourceObject},
	EnvironmentDevelopment: {SourceLocal, SourceRemote, SourceObject},
	EnvironmentFilesystem:  {SourceLocal, SourceObject},
	EnvironmentUnknown:     {SourceRemote, SourceLocal},
}

// PriorityFor returns the ordered list of sources to query in the given environment.
// The returned slice is a copy and may be modified by the caller.
func PriorityFor(env Environment) []SourceID {
	order, ok := sourcePriority[env]
	if !ok {
		order = sourcePriority[EnvironmentUnknown]
	}
	return slices.Clone(order)
}

// ParseEnvironment converts a configured environment name into an Environment.
// "auto" and the empty string report ok=true with an empty Environment, meaning "detect".
func ParseEnvironment(s string) (Environment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", EnvironmentAuto:
		return "", true
	case string(EnvironmentProduction), "prod":
		return EnvironmentProduction, true
	case string(EnvironmentDevelopment), "dev", "local":
		return EnvironmentDevelopment, true
	case string(EnvironmentFilesystem), "file":
		return EnvironmentFilesystem, true
	case string(EnvironmentUnknown):
		return EnvironmentUnknown, true
	default:
		return "", false
	}
}
