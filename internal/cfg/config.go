package cfg

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
)

const (
	DefLogFormat           = "logfmt"
	DefLogLevel            = "info"
	DefLogTimeKey          = "time_iso8601"
	DefIntegrationBranch   = "master"
	DefGitOperationTimeout = "5m"
	DefActionRetryTimeout  = "2h"
	DefDatabasePath        = "/var/lib/csresolver/csresolver.db"
)

type Config struct {
	HTTPListenAddr            string `toml:"http_server_listen_addr"`
	HTTPSListenAddr           string `toml:"https_server_listen_addr"`
	HTTPSCertFile             string `toml:"https_ssl_cert_file"`
	HTTPSKeyFile              string `toml:"https_ssl_key_file"`
	HTTPGithubWebhookEndpoint string `toml:"github_webhook_endpoint"`
	GithubWebHookSecret       string `toml:"github_webhook_secret"`
	GithubEventFilter         string `toml:"github_event_filter"`
	HTTPWebhookEndpoint       string `toml:"webhook_endpoint"`
	PrometheusMetricsEndpoint string `toml:"prometheus_metrics_endpoint"`
	StatusStepsEndpoint       string `toml:"status_steps_endpoint"`
	GithubAPIToken            string `toml:"github_api_token"`

	LogFormat  string `toml:"log_format"`
	LogLevel   string `toml:"log_level"`
	LogTimeKey string `toml:"log_time_key"`

	DatabasePath string `toml:"database_path"`

	IntegrationBranch   string `toml:"integration_branch"`
	GitUsername         string `toml:"git_username"`
	GitPassword         string `toml:"git_password"`
	GitOperationTimeout string `toml:"git_operation_timeout"`

	SlackWebhookURL string `toml:"slack_webhook_url"`
	SlackChannel    string `toml:"slack_channel"`

	DeployTriggerURL      string `toml:"deploy_trigger_url"`
	DeployTriggerUser     string `toml:"deploy_trigger_user"`
	DeployTriggerPassword string `toml:"deploy_trigger_password"`

	ActionRetryTimeout string `toml:"action_retry_timeout"`
}

// Load reads a TOML configuration from reader. Unset options are set to their
// default values.
func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	result.setDefaults()

	return &result, nil
}

func (c *Config) setDefaults() {
	setDefault(&c.LogFormat, DefLogFormat)
	setDefault(&c.LogLevel, DefLogLevel)
	setDefault(&c.LogTimeKey, DefLogTimeKey)
	setDefault(&c.DatabasePath, DefDatabasePath)
	setDefault(&c.IntegrationBranch, DefIntegrationBranch)
	setDefault(&c.GitOperationTimeout, DefGitOperationTimeout)
	setDefault(&c.ActionRetryTimeout, DefActionRetryTimeout)
}

func setDefault(field *string, val string) {
	if *field == "" {
		*field = val
	}
}

// Validate returns an error if the configuration is incomplete or contains
// invalid values.
func (c *Config) Validate() error {
	if c.HTTPListenAddr == "" && c.HTTPSListenAddr == "" {
		return errors.New("https_server_listen_addr or http_server_listen_addr must be defined, both are unset")
	}

	if c.HTTPSListenAddr != "" && (c.HTTPSCertFile == "" || c.HTTPSKeyFile == "") {
		return errors.New("https_ssl_cert_file and https_ssl_key_file must be defined when https_server_listen_addr is set")
	}

	if c.HTTPGithubWebhookEndpoint == "" && c.HTTPWebhookEndpoint == "" {
		return errors.New("github_webhook_endpoint or webhook_endpoint must be defined, both are unset")
	}

	if c.HTTPGithubWebhookEndpoint != "" && c.HTTPGithubWebhookEndpoint == c.HTTPWebhookEndpoint {
		return errors.New("github_webhook_endpoint and webhook_endpoint must differ")
	}

	if _, err := c.GitOperationTimeoutDuration(); err != nil {
		return err
	}

	if _, err := c.ActionRetryTimeoutDuration(); err != nil {
		return err
	}

	return nil
}

func (c *Config) GitOperationTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("git_operation_timeout", c.GitOperationTimeout)
}

func (c *Config) ActionRetryTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("action_retry_timeout", c.ActionRetryTimeout)
}

func parsePositiveDuration(key, val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, is %s", key, d)
	}

	return d, nil
}

func (c *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(c)
}
