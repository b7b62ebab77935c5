package hooks

// ExitCode is the raw exit code of a hook process.
type ExitCode int

// DefaultExitCode means the hook has not run yet or failed to launch.
const DefaultExitCode ExitCode = -1

// HealthCheck is the service health reported by the health-check hook.
type HealthCheck int

// Health check results ordered by severity. The numeric values match the exit
// codes a health-check script uses to report them.
const (
	HealthOK HealthCheck = iota
	HealthWarning
	HealthCritical
	HealthUnknown
)

func (h HealthCheck) String() string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthWarning:
		return "WARNING"
	case HealthCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// SmokeCheck is the result of the smoke-test hook. SmokeOK means the test
// passed, any other value is the failing exit code of the script.
type SmokeCheck int

// SmokeOK is reported by a smoke-test script exiting with code zero.
const SmokeOK SmokeCheck = 0

// DefaultSmokeCheck means the smoke test has not run or its process was
// terminated before reporting a code.
const DefaultSmokeCheck SmokeCheck = -1
