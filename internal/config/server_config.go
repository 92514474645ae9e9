package config

import (
	"strings"
	"time"

	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	BaseURL                        string
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
	ShutdownTimeout                time.Duration
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	PrettyPrintConsole bool
}

// Signing selects where the signing key comes from. The key itself is only
// read on first use.
type Signing struct {
	KeySource    string
	KeyEnvVar    string
	KeyFile      string
	KeyConsulKey string
}

type Audit struct {
	EventKind       string
	DatasetURN      string
	CorrelationPath []string
}

type Connector struct {
	Timeout       time.Duration
	MaxConcurrent int64
}

type Consul struct {
	Address          string
	Token            string
	Register         bool
	ServiceID        string
	ServiceName      string
	AdvertiseAddress string
	AdvertisePort    int
}

type Management struct {
	ProbeReadinessTimeout time.Duration
}

type Metrics struct {
	Enabled bool
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Signing    Signing
	Audit      Audit
	Connector  Connector
	Consul     Consul
	Management Management
	Metrics    Metrics
}

// envBindings maps config keys to the environment variables overriding them.
var envBindings = map[string]string{
	"echo.debug":                     "SERVER_ECHO_DEBUG",
	"echo.listen_address":            "SERVER_ECHO_LISTEN_ADDRESS",
	"echo.base_url":                  "SERVER_ECHO_BASE_URL",
	"echo.hide_internal_errors":      "SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS",
	"echo.enable_recover":            "SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE",
	"echo.enable_request_id":         "SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE",
	"echo.enable_logger":             "SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE",
	"echo.shutdown_timeout":          "SERVER_ECHO_SHUTDOWN_TIMEOUT",
	"logger.level":                   "LOGGER_LEVEL",
	"logger.request_level":           "LOGGER_REQUEST_LEVEL",
	"logger.log_request_body":        "LOGGER_LOG_REQUEST_BODY",
	"logger.pretty_print_console":    "LOGGER_PRETTY_PRINT_CONSOLE",
	"signing.key_source":             "SIGNING_KEY_SOURCE",
	"signing.key_env_var":            "SIGNING_KEY_ENV_VAR",
	"signing.key_file":               "SIGNING_KEY_FILE",
	"signing.key_consul_key":         "SIGNING_KEY_CONSUL_KEY",
	"audit.event_kind":               "AUDIT_EVENT_KIND",
	"audit.dataset_urn":              "AUDIT_DATASET_URN",
	"audit.correlation_path":         "AUDIT_CORRELATION_PATH",
	"connector.timeout":              "CONNECTOR_TIMEOUT",
	"connector.max_concurrent":       "CONNECTOR_MAX_CONCURRENT",
	"consul.address":                 "CONSUL_HTTP_ADDR",
	"consul.token":                   "CONSUL_HTTP_TOKEN",
	"consul.register":                "CONSUL_REGISTER",
	"consul.service_id":              "CONSUL_SERVICE_ID",
	"consul.service_name":            "CONSUL_SERVICE_NAME",
	"consul.advertise_address":       "CONSUL_ADVERTISE_ADDRESS",
	"consul.advertise_port":          "CONSUL_ADVERTISE_PORT",
	"management.probe_ready_timeout": "SERVER_MANAGEMENT_PROBE_READINESS_TIMEOUT",
	"metrics.enabled":                "METRICS_ENABLED",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("echo.debug", false)
	v.SetDefault("echo.listen_address", ":8080")
	v.SetDefault("echo.base_url", "http://localhost:8080")
	v.SetDefault("echo.hide_internal_errors", true)
	v.SetDefault("echo.enable_recover", true)
	v.SetDefault("echo.enable_request_id", true)
	v.SetDefault("echo.enable_logger", true)
	v.SetDefault("echo.shutdown_timeout", "10s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.request_level", "info")
	v.SetDefault("logger.log_request_body", false)
	v.SetDefault("logger.pretty_print_console", false)

	v.SetDefault("signing.key_source", key.SourceEnv)
	v.SetDefault("signing.key_env_var", key.DefaultKeyEnvVar)
	v.SetDefault("signing.key_file", "")
	v.SetDefault("signing.key_consul_key", "fmcpx/signing-key")

	v.SetDefault("audit.event_kind", audit.DefaultEventKind)
	v.SetDefault("audit.dataset_urn", audit.DefaultDatasetURN)
	v.SetDefault("audit.correlation_path", strings.Join(audit.DefaultCorrelationPath, "."))

	v.SetDefault("connector.timeout", "30s")
	v.SetDefault("connector.max_concurrent", 16)

	v.SetDefault("consul.address", "127.0.0.1:8500")
	v.SetDefault("consul.token", "")
	v.SetDefault("consul.register", false)
	v.SetDefault("consul.service_id", "")
	v.SetDefault("consul.service_name", "fmcpx")
	v.SetDefault("consul.advertise_address", "")
	v.SetDefault("consul.advertise_port", 8080)

	v.SetDefault("management.probe_ready_timeout", "2s")

	v.SetDefault("metrics.enabled", true)
}

// NewViper returns a viper instance with all defaults and env bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, env := range envBindings {
		_ = v.BindEnv(k, env)
	}
	return v
}

// DefaultServiceConfigFromEnv returns the server config as parsed from
// environment variables and their respective defaults.
func DefaultServiceConfigFromEnv() Server {
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) Server {
	return Server{
		Echo: EchoServer{
			Debug:                          v.GetBool("echo.debug"),
			ListenAddress:                  v.GetString("echo.listen_address"),
			BaseURL:                        v.GetString("echo.base_url"),
			HideInternalServerErrorDetails: v.GetBool("echo.hide_internal_errors"),
			EnableRecoverMiddleware:        v.GetBool("echo.enable_recover"),
			EnableRequestIDMiddleware:      v.GetBool("echo.enable_request_id"),
			EnableLoggerMiddleware:         v.GetBool("echo.enable_logger"),
			ShutdownTimeout:                v.GetDuration("echo.shutdown_timeout"),
		},
		Logger: LoggerServer{
			Level:              parseLevel(v.GetString("logger.level"), zerolog.InfoLevel),
			RequestLevel:       parseLevel(v.GetString("logger.request_level"), zerolog.InfoLevel),
			LogRequestBody:     v.GetBool("logger.log_request_body"),
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
		Signing: Signing{
			KeySource:    v.GetString("signing.key_source"),
			KeyEnvVar:    v.GetString("signing.key_env_var"),
			KeyFile:      v.GetString("signing.key_file"),
			KeyConsulKey: v.GetString("signing.key_consul_key"),
		},
		Audit: Audit{
			EventKind:       v.GetString("audit.event_kind"),
			DatasetURN:      v.GetString("audit.dataset_urn"),
			CorrelationPath: splitPath(v.GetString("audit.correlation_path")),
		},
		Connector: Connector{
			Timeout:       v.GetDuration("connector.timeout"),
			MaxConcurrent: v.GetInt64("connector.max_concurrent"),
		},
		Consul: Consul{
			Address:          v.GetString("consul.address"),
			Token:            v.GetString("consul.token"),
			Register:         v.GetBool("consul.register"),
			ServiceID:        v.GetString("consul.service_id"),
			ServiceName:      v.GetString("consul.service_name"),
			AdvertiseAddress: v.GetString("consul.advertise_address"),
			AdvertisePort:    v.GetInt("consul.advertise_port"),
		},
		Management: Management{
			ProbeReadinessTimeout: v.GetDuration("management.probe_ready_timeout"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("metrics.enabled"),
		},
	}
}

// LoadEnvFile exports the variables of a dotenv file into the process
// environment. Variables that are already set win.
func LoadEnvFile(path string) error {
	if err := gotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load env file %s", path)
	}
	return nil
}

func parseLevel(s string, fallback zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		log.Warn().Str("level", s).Str("fallback", fallback.String()).Msg("Invalid log level, using fallback")
		return fallback
	}
	return level
}

func splitPath(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ".") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
