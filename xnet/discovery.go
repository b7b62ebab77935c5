package xnet

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/hashicorp/consul/api"
	log "github.com/sirupsen/logrus"
)

// DiscoveryServiceClient represents generic discovery service client that can
// return list of instances registered under a name.
type DiscoveryServiceClient interface {
	// GetAddrsByName returns list of service addresses with given name
	GetAddrsByName(serviceName string) ([]Address, error)
}

// DiscoveryServiceInstanceProvider returns InstanceProvider that is updated
// with list of instances in interval
func DiscoveryServiceInstanceProvider(serviceName string, interval time.Duration, client DiscoveryServiceClient) InstanceProvider {
	instancesChan := make(chan []Address)

	go func() {
		var currInstances []Address
		for range time.NewTicker(interval).C {
			newInstances, err := client.GetAddrsByName(serviceName)
			if err != nil {
				log.WithError(err).Warn("Unable to get instances from discovery service")
				continue
			}
			sort.Slice(newInstances, func(i, j int) bool {
				return newInstances[i] < newInstances[j]
			})
			if !reflect.DeepEqual(currInstances, newInstances) {
				log.WithField("instances", newInstances).Infof("Service %q instances in discovery changed - sending update", serviceName)
				currInstances = newInstances
				instancesChan <- newInstances
			}
		}
	}()

	return instancesChan
}

// NewConsulDiscoveryServiceClient returns DiscoveryServiceClient backed by Consul
func NewConsulDiscoveryServiceClient(client *api.Client) DiscoveryServiceClient {
	return &consulDiscoveryServiceClient{
		client: client,
	}
}

type consulDiscoveryServiceClient struct {
	client *api.Client
}

func (c *consulDiscoveryServiceClient) GetAddrsByName(serviceName string) ([]Address, error) {
	services, _, err := c.client.Catalog().Service(serviceName, "", nil)

	if err != nil {
		return nil, fmt.Errorf("could not find service in Consul: %s", err)
	}

	instances := make([]Address, len(services))
	for i, instance := range services {
		instances[i] = Address(fmt.Sprintf("%s:%d", instance.ServiceAddress, instance.ServicePort))
	}

	return instances, nil
}
