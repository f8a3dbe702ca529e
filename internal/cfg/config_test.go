package cfg

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
http_server_listen_addr = ":8085"
github_webhook_endpoint = "/listener/github"
github_webhook_secret = "secret"
github_event_filter = '.repository.owner.login == "sisu"'
webhook_endpoint = "/listener/webhook"
prometheus_metrics_endpoint = "/metrics"
status_steps_endpoint = "/status/steps"
database_path = "/tmp/csresolver.db"
integration_branch = "main"
git_operation_timeout = "10m"
slack_webhook_url = "https://hooks.slack.com/services/T/B/X"
slack_channel = "#deployments"
deploy_trigger_url = "https://ci.example.com/deploy"
deploy_trigger_user = "ci"
deploy_trigger_password = "pw"
`

func TestLoad(t *testing.T) {
	config, err := Load(strings.NewReader(testConfig))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, ":8085", config.HTTPListenAddr)
	assert.Equal(t, "/listener/github", config.HTTPGithubWebhookEndpoint)
	assert.Equal(t, `.repository.owner.login == "sisu"`, config.GithubEventFilter)
	assert.Equal(t, "/listener/webhook", config.HTTPWebhookEndpoint)
	assert.Equal(t, "/status/steps", config.StatusStepsEndpoint)
	assert.Equal(t, "/tmp/csresolver.db", config.DatabasePath)
	assert.Equal(t, "main", config.IntegrationBranch)
	assert.Equal(t, "#deployments", config.SlackChannel)
	assert.Equal(t, "ci", config.DeployTriggerUser)

	d, err := config.GitOperationTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)
}

func TestLoadSetsDefaults(t *testing.T) {
	config, err := Load(strings.NewReader(`http_server_listen_addr = ":8085"`))
	require.NoError(t, err)

	assert.Equal(t, DefLogFormat, config.LogFormat)
	assert.Equal(t, DefLogLevel, config.LogLevel)
	assert.Equal(t, DefLogTimeKey, config.LogTimeKey)
	assert.Equal(t, DefDatabasePath, config.DatabasePath)
	assert.Equal(t, DefIntegrationBranch, config.IntegrationBranch)

	gitTimeout, err := config.GitOperationTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, gitTimeout)

	retryTimeout, err := config.ActionRetryTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, retryTimeout)
}

func TestLoadInvalidToml(t *testing.T) {
	_, err := Load(strings.NewReader(`http_server_listen_addr = `))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		config, err := Load(strings.NewReader(testConfig))
		require.NoError(t, err)
		return config
	}

	for _, tc := range []struct {
		name   string
		modify func(*Config)
	}{
		{name: "no_listen_addr", modify: func(c *Config) { c.HTTPListenAddr = "" }},
		{name: "https_without_cert", modify: func(c *Config) { c.HTTPSListenAddr = ":443" }},
		{name: "no_endpoint", modify: func(c *Config) {
			c.HTTPGithubWebhookEndpoint = ""
			c.HTTPWebhookEndpoint = ""
		}},
		{name: "same_endpoints", modify: func(c *Config) { c.HTTPWebhookEndpoint = c.HTTPGithubWebhookEndpoint }},
		{name: "invalid_git_timeout", modify: func(c *Config) { c.GitOperationTimeout = "soon" }},
		{name: "negative_retry_timeout", modify: func(c *Config) { c.ActionRetryTimeout = "-1h" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			config := valid()
			tc.modify(config)
			assert.Error(t, config.Validate())
		})
	}
}
