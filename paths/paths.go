// Package paths defines the on-disk layout of supervised services.
package paths

import "path/filepath"

// DefaultServicesRoot is the directory under which service state lives unless
// configured otherwise.
const DefaultServicesRoot = "/var/lib/lifecycle/svc"

// Layout resolves the directories of a single supervised service under a
// configurable root.
type Layout struct {
	// ServicesRoot is the directory containing one subdirectory per service.
	ServicesRoot string
}

// DefaultLayout returns a Layout rooted at DefaultServicesRoot.
func DefaultLayout() Layout {
	return Layout{ServicesRoot: DefaultServicesRoot}
}

// SvcDir returns the state directory of the named service.
func (l Layout) SvcDir(serviceName string) string {
	return filepath.Join(l.ServicesRoot, serviceName)
}

// SvcHooksPath returns the directory holding the compiled hook scripts of the
// named service.
func (l Layout) SvcHooksPath(serviceName string) string {
	return filepath.Join(l.SvcDir(serviceName), "hooks")
}

// SvcLogsPath returns the directory holding the captured hook output logs of
// the named service.
func (l Layout) SvcLogsPath(serviceName string) string {
	return filepath.Join(l.SvcDir(serviceName), "logs")
}

// SvcConfigPath returns the directory holding the rendered configuration of
// the named service.
func (l Layout) SvcConfigPath(serviceName string) string {
	return filepath.Join(l.SvcDir(serviceName), "config")
}
