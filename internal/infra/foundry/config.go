package foundry

import (
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const DefaultEndpoint = "https://acme.foundry.mil/api/v2/graphQL"

// Config is read from the environment when the client is built, never earlier.
type Config struct {
	Endpoint string        `env:"FOUNDRY_GQL" envDefault:"https://acme.foundry.mil/api/v2/graphQL"`
	Token    string        `env:"FOUNDRY_PAT"`
	Timeout  time.Duration `env:"FOUNDRY_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv parses Config from the process environment.
func ConfigFromEnv() (Config, error) {
	return parseConfig(env.Options{})
}

// ConfigFromMap parses Config from vars instead of the process environment.
func ConfigFromMap(vars map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: vars})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(err, "parse foundry env")
	}
	return cfg, nil
}

// Validate reports whether the client can be used. A missing token is fatal
// so calls are never made unauthenticated.
func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("FOUNDRY_PAT not set: export a Foundry personal access token first")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("FOUNDRY_GQL is not an absolute URL: %q", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("FOUNDRY_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

