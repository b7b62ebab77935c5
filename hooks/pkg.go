// Package hooks renders, compiles and runs the lifecycle scripts of a
// supervised service. Each hook kind maps the exit status of its script to a
// typed result that the service runner consumes to decide what the service
// should do next.
package hooks

// Pkg describes the runtime identity and environment of a supervised service
// package. Hook processes are spawned with the package environment and, when
// the supervisor holds the required privileges, as the package service user
// and group.
type Pkg struct {
	// Name is the name of the service the package provides.
	Name string
	// SvcUser is the name of the user hook processes should run as.
	SvcUser string
	// SvcGroup is the name of the group hook processes should run as.
	SvcGroup string
	// Env holds environment variables injected into every hook process.
	Env map[string]string
}
