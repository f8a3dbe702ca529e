package httprequest

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const loggerName = "action.httprequest"

// Config is the configuration of a HTTP-Request action.
type Config struct {
	url      string
	user     string
	password string
	method   string
	headers  map[string]string
	data     []byte
	logger   *zap.Logger
}

// WithAuth defines user and password that is used for Basic Auth.
func WithAuth(user, password string) func(*Config) {
	return func(h *Config) {
		h.user = user
		h.password = password
	}
}

// WithMethod sets the HTTP method, the default is POST.
func WithMethod(method string) func(*Config) {
	return func(h *Config) {
		h.method = method
	}
}

// WithHeader adds a header to the request.
func WithHeader(key, val string) func(*Config) {
	return func(h *Config) {
		h.headers[key] = val
	}
}

// WithBody sets the request body.
func WithBody(data []byte) func(*Config) {
	return func(h *Config) {
		h.data = data
	}
}

func NewConfig(url string, opts ...func(*Config)) *Config {
	c := Config{
		url:     url,
		method:  http.MethodPost,
		headers: map[string]string{},
		logger:  zap.L().Named(loggerName),
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

func (c *Config) String() string {
	return fmt.Sprintf("httprequest: %s to %s", c.method, c.url)
}

// DetailedString returns a multi-line description of the config.
// Credentials, the body and header values are masked.
func (c *Config) DetailedString() string {
	const maskedStr = "************"
	var result strings.Builder

	result.WriteString("http-request:\n")
	result.WriteString(fmt.Sprintf("  url: %s\n", c.url))
	result.WriteString(fmt.Sprintf("  method: %s\n", c.method))
	if c.user != "" {
		result.WriteString("  user: " + maskedStr + "\n")
	}

	if c.password != "" {
		result.WriteString("  password: " + maskedStr + "\n")
	}

	if len(c.data) > 0 {
		result.WriteString("  data: " + maskedStr + "\n")
	}

	if len(c.headers) > 0 {
		result.WriteString("  headers:\n")
	}

	for k := range c.headers {
		result.WriteString(fmt.Sprintf("    %s: %s\n", k, maskedStr))
	}

	return result.String()
}
