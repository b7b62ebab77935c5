// Package runenv exposes information about the runtime environment of the
// supervisor process - hostname, environment classification and cloud
// placement data.
package runenv

import (
	"fmt"
	"net"
	"os"
	"regexp"
)

const (
	// LocalEnv represents local environment.
	LocalEnv = Env("local")
	// DevEnv represents development environment.
	DevEnv = Env("dev")
	// TestEnv represents test environment.
	TestEnv = Env("test")
	// ProdEnv represents production environment.
	ProdEnv = Env("prod")

	defaultEnvironment = LocalEnv
)

var environmentRegexp = regexp.MustCompile(`.*-(prod|test|dev)\..*`)

var getOsHostname = OsHostname

// Env is name of the environment on which the supervisor is running.
type Env string

// Environment returns current environment based on hostname. If it cannot
// determine the hostname it returns an error.
func Environment() (Env, error) {
	hostname, err := Hostname()

	if err != nil {
		return defaultEnvironment, err
	}

	matches := environmentRegexp.FindStringSubmatch(hostname)

	if matches == nil || len(matches) == 1 {
		return defaultEnvironment, nil
	}

	return Env(matches[1]), nil
}

// AvailabilityZone returns the name of runtime availability zone. It returns
// empty string with error if it cannot determine the name.
func AvailabilityZone() (string, error) {
	return getEnvVarIfSet("CLOUD_AVAILABILITY_ZONE")
}

// Datacenter returns the name of runtime datacenter. It returns empty string
// with error if it cannot determine the name.
func Datacenter() (string, error) {
	return getEnvVarIfSet("CLOUD_DC")
}

// Hostname returns the host name reported by the cloud environment or the
// operating system.
func Hostname() (string, error) {
	if os.Getenv("CLOUD_HOSTNAME") != "" {
		return os.Getenv("CLOUD_HOSTNAME"), nil
	}
	return getOsHostname()
}

// IP returns the IP of runtime host.
func IP() net.IP {
	return net.ParseIP(os.Getenv("CLOUD_PUBLIC_IP"))
}

// Region returns the name of runtime cloud region. It returns empty string
// with error if it cannot determine the name.
func Region() (string, error) {
	return getEnvVarIfSet("CLOUD_REGION")
}

// getEnvVarIfSet returns environment variable value when it is set
// or error when it's empty or not set
func getEnvVarIfSet(name string) (string, error) {
	if os.Getenv(name) != "" {
		return os.Getenv(name), nil
	}
	return "", fmt.Errorf("no %s environment variable set", name)
}
