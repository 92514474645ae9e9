package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ServiceInfo describes this process to Consul.
type ServiceInfo struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	Meta    map[string]string
	Check   *HealthCheck
}

// HealthCheck is the HTTP check Consul runs against a registered instance.
type HealthCheck struct {
	Path                           string
	Interval                       time.Duration
	Timeout                        time.Duration
	DeregisterCriticalServiceAfter time.Duration
}

type ConsulConfig struct {
	Address string
	Token   string
}

// ConsulClient registers the service and reads secrets from the KV store.
type ConsulClient struct {
	client *api.Client
}

func NewConsulClient(cfg ConsulConfig) (*ConsulClient, error) {
	config := api.DefaultConfig()
	if cfg.Address != "" {
		config.Address = cfg.Address
	}
	if cfg.Token != "" {
		config.Token = cfg.Token
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create consul client")
	}

	return &ConsulClient{client: client}, nil
}

// GetSecret returns the raw value stored at key.
func (c *ConsulClient) GetSecret(ctx context.Context, key string) ([]byte, error) {
	pair, _, err := c.client.KV().Get(key, (&api.QueryOptions{RequireConsistent: true}).WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read consul key %s", key)
	}
	if pair == nil {
		return nil, errors.Errorf("consul key %s not found", key)
	}
	return pair.Value, nil
}

func (c *ConsulClient) Register(ctx context.Context, service *ServiceInfo) error {
	registration, err := buildRegistration(service)
	if err != nil {
		return err
	}

	if err := c.client.Agent().ServiceRegister(registration); err != nil {
		return errors.Wrapf(err, "failed to register service %s", service.ID)
	}

	log.Info().
		Str("service_id", registration.ID).
		Str("service_name", registration.Name).
		Str("address", registration.Address).
		Int("port", registration.Port).
		Strs("tags", registration.Tags).
		Msg("Service registered successfully")

	return nil
}

func (c *ConsulClient) Deregister(ctx context.Context, serviceID string) error {
	if err := c.client.Agent().ServiceDeregister(serviceID); err != nil {
		return errors.Wrapf(err, "failed to deregister service %s", serviceID)
	}

	log.Info().Str("service_id", serviceID).Msg("Service deregistered successfully")
	return nil
}

func buildRegistration(service *ServiceInfo) (*api.AgentServiceRegistration, error) {
	if service == nil || service.ID == "" {
		return nil, errors.New("service ID cannot be empty")
	}

	name := service.Name
	if name == "" {
		name = "fmcpx"
	}

	registration := &api.AgentServiceRegistration{
		ID:      service.ID,
		Name:    name,
		Address: service.Address,
		Port:    service.Port,
		Tags:    append([]string(nil), service.Tags...),
		Meta:    service.Meta,
	}

	if service.Check != nil {
		address := service.Address
		if address == "" {
			address = "127.0.0.1"
		}

		check := &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d%s", address, service.Port, service.Check.Path),
			Method:   "GET",
			Interval: service.Check.Interval.String(),
			Timeout:  service.Check.Timeout.String(),
		}
		if service.Check.DeregisterCriticalServiceAfter > 0 {
			check.DeregisterCriticalServiceAfter = service.Check.DeregisterCriticalServiceAfter.String()
		}
		registration.Check = check
	}

	return registration, nil
}
