package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/csresolver/internal/action"
	"github.com/simplesurance/csresolver/internal/cfg"
	"github.com/simplesurance/csresolver/internal/deploy"
	"github.com/simplesurance/csresolver/internal/gitclt"
	"github.com/simplesurance/csresolver/internal/githubclt"
	"github.com/simplesurance/csresolver/internal/logfields"
	"github.com/simplesurance/csresolver/internal/notify"
	"github.com/simplesurance/csresolver/internal/notify/slack"
	"github.com/simplesurance/csresolver/internal/provider"
	"github.com/simplesurance/csresolver/internal/provider/github"
	"github.com/simplesurance/csresolver/internal/provider/webhook"
	"github.com/simplesurance/csresolver/internal/resolver"
	"github.com/simplesurance/csresolver/internal/status"
	"github.com/simplesurance/csresolver/internal/steps"
	"github.com/simplesurance/csresolver/internal/store/sqlite"
)

const appName = "csresolver"

var logger *zap.Logger

// Version is set via a ldflag on compilation
var Version = "unknown"

const shutdownTimeout = 30 * time.Second

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Info(
			"panic caught , terminating gracefully",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

func startHTTPSServer(listenAddr string, certFile, keyFile string, mux *http.ServeMux) *http.Server {
	httpsServer := http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: time.Minute,
	}

	go func() {
		defer panicHandler()

		logger.Info(
			"https server started",
			logfields.Event("https_server_started"),
			zap.String("listenAddr", listenAddr),
		)

		err := httpsServer.ListenAndServeTLS(certFile, keyFile)
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("https server terminated", logfields.Event("https_server_terminated"))
			return
		}

		logger.Fatal(
			"https server terminated unexpectedly",
			logfields.Event("https_server_terminated_unexpectedly"),
			zap.Error(err),
		)
	}()

	return &httpsServer
}

func startHTTPServer(listenAddr string, mux *http.ServeMux) *http.Server {
	httpServer := http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: time.Minute,
	}

	go func() {
		defer panicHandler()

		logger.Info(
			"http server started",
			logfields.Event("http_server_started"),
			zap.String("listenAddr", listenAddr),
		)

		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("http server terminated", logfields.Event("http_server_terminated"))
			return
		}

		logger.Fatal(
			"http server terminated unexpectedly",
			logfields.Event("http_server_terminated_unexpectedly"),
			zap.Error(err),
		)
	}()

	return &httpServer
}

func shutdownServer(srv *http.Server) {
	ctx, cancelFn := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelFn()

	logger.Debug(
		"terminating http server",
		logfields.Event("http_server_terminating"),
		zap.String("listenAddr", srv.Addr),
		zap.Duration("shutdown_timeout", shutdownTimeout),
	)

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn(
			"shutting down http server failed",
			logfields.Event("http_server_termination_failed"),
			zap.String("listenAddr", srv.Addr),
			zap.Error(err),
		)
	}
}

type arguments struct {
	Verbose     *bool
	ConfigFile  *string
	ShowVersion *bool
}

var args arguments

const defConfigFile = "/etc/csresolver/config.toml"

func mustParseCommandlineParams() {
	args = arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			defConfigFile,
			"path to the csresolver configuration file",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]\nReceive pull request events and resolve the pull requests of change sets.\n", appName)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
}

func mustParseCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	file, err := os.Open(*args.ConfigFile)
	exitOnErr("could not open configuration files", err)
	defer file.Close()

	config, err := cfg.Load(file)
	exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)

	err = config.Validate()
	exitOnErr(fmt.Sprintf("invalid configuration file: %s", *args.ConfigFile), err)

	return config
}

func initLogFmtLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zapEncoderConfig(config)

	logger := zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(cfg),
		os.Stdout,
		logLevel),
	)

	return logger
}

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func mustInitZapFormatLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig = zapEncoderConfig(config)
	cfg.OutputPaths = []string{"stdout"}
	cfg.Encoding = config.LogFormat
	cfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := cfg.Build()
	exitOnErr("could not initialize logger", err)

	return logger
}

func mustInitLogger(config *cfg.Config) {
	var logLevel zapcore.Level
	if *args.Verbose {
		logLevel = zapcore.DebugLevel
	} else {
		if err := (&logLevel).Set(config.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "can not set log level to %q: %s \n", config.LogLevel, err)
			os.Exit(2)
		}
	}

	switch config.LogFormat {
	case "logfmt":
		logger = initLogFmtLogger(config, logLevel)
	case "console", "json":
		logger = mustInitZapFormatLogger(config, logLevel)
	default:
		fmt.Fprintf(os.Stderr, "unsupported log-format argument: %q\n", config.LogFormat)
		os.Exit(2)
	}

	logger = logger.Named("main")
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func mustDuration(d time.Duration, err error) time.Duration {
	exitOnErr("invalid duration in configuration", err)
	return d
}

func newNotifier(config *cfg.Config, scheduler *action.Scheduler) resolver.Notifier {
	if config.SlackWebhookURL == "" {
		logger.Info(
			"slack_webhook_url is not set, notifications are only logged",
			logfields.Event("slack_notifier_disabled"),
		)

		return notify.NewLogNotifier()
	}

	return slack.New(config.SlackWebhookURL, config.SlackChannel, scheduler)
}

func newDeploymentTrigger(config *cfg.Config, scheduler *action.Scheduler) resolver.DeploymentTrigger {
	if config.DeployTriggerURL == "" {
		logger.Info(
			"deploy_trigger_url is not set, deployments are only logged",
			logfields.Event("deploy_trigger_disabled"),
		)

		return deploy.NewLogTrigger()
	}

	return deploy.NewHTTPTrigger(
		config.DeployTriggerURL,
		scheduler,
		deploy.WithBasicAuth(config.DeployTriggerUser, config.DeployTriggerPassword),
	)
}

func newGitClient(config *cfg.Config) *gitclt.Client {
	opts := []gitclt.Option{gitclt.WithBasicAuth(config.GitUsername, config.GitPassword)}

	if config.GithubAPIToken != "" {
		opts = append(opts, gitclt.WithGitHubBranchDeleter(githubclt.New(config.GithubAPIToken)))
	}

	return gitclt.New(opts...)
}

func mustRegisterHandlers(config *cfg.Config, mux *http.ServeMux, processor provider.Processor, stepLister status.StepLister) {
	if config.HTTPGithubWebhookEndpoint != "" {
		opts := []github.Option{github.WithPayloadSecret(config.GithubWebHookSecret)}

		if config.GithubEventFilter != "" {
			filter, err := provider.NewFilter(config.GithubEventFilter)
			exitOnErr("could not parse github_event_filter", err)

			opts = append(opts, github.WithFilter(filter))
		}

		gh := github.New(processor, opts...)

		mux.HandleFunc(config.HTTPGithubWebhookEndpoint, gh.HTTPHandler)
		logger.Info(
			"registered github webhook event http endpoint",
			logfields.Event("github_http_handler_registered"),
			zap.String("endpoint", config.HTTPGithubWebhookEndpoint),
		)
	}

	if config.HTTPWebhookEndpoint != "" {
		wh := webhook.New(processor)

		mux.HandleFunc(config.HTTPWebhookEndpoint, wh.HTTPHandler)
		logger.Info(
			"registered webhook event http endpoint",
			logfields.Event("webhook_http_handler_registered"),
			zap.String("endpoint", config.HTTPWebhookEndpoint),
		)
	}

	if config.StatusStepsEndpoint != "" {
		mux.HandleFunc(config.StatusStepsEndpoint, status.NewHTTPService(stepLister).HandlerSteps)
		logger.Info(
			"registered run steps status http endpoint",
			logfields.Event("status_http_handler_registered"),
			zap.String("endpoint", config.StatusStepsEndpoint),
		)
	}

	if config.PrometheusMetricsEndpoint != "" {
		mux.Handle(config.PrometheusMetricsEndpoint, promhttp.Handler())
		logger.Info(
			"registered prometheus metrics http endpoint",
			logfields.Event("metrics_http_handler_registered"),
			zap.String("endpoint", config.PrometheusMetricsEndpoint),
		)
	}
}

func main() {
	defer panicHandler()

	defer goodbye.Exit(context.Background(), 1)
	goodbye.Notify(context.Background())

	mustParseCommandlineParams()

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0) // nolint:gocritic // defer functions won't run
	}

	config := mustParseCfg()

	mustInitLogger(config)

	logger.Info(
		"loaded cfg file",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", *args.ConfigFile),
		zap.String("http_server_listen_addr", config.HTTPListenAddr),
		zap.String("https_server_listen_addr", config.HTTPSListenAddr),
		zap.String("github_webhook_endpoint", config.HTTPGithubWebhookEndpoint),
		zap.String("github_webhook_secret", hide(config.GithubWebHookSecret)),
		zap.String("github_event_filter", config.GithubEventFilter),
		zap.String("webhook_endpoint", config.HTTPWebhookEndpoint),
		zap.String("prometheus_metrics_endpoint", config.PrometheusMetricsEndpoint),
		zap.String("status_steps_endpoint", config.StatusStepsEndpoint),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.String("log_format", config.LogFormat),
		zap.String("log_time_key", config.LogTimeKey),
		zap.String("log_level", config.LogLevel),
		zap.String("database_path", config.DatabasePath),
		zap.String("integration_branch", config.IntegrationBranch),
		zap.String("git_username", config.GitUsername),
		zap.String("git_password", hide(config.GitPassword)),
		zap.String("git_operation_timeout", config.GitOperationTimeout),
		zap.String("slack_webhook_url", hide(config.SlackWebhookURL)),
		zap.String("slack_channel", config.SlackChannel),
		zap.String("deploy_trigger_url", config.DeployTriggerURL),
		zap.String("deploy_trigger_user", config.DeployTriggerUser),
		zap.String("deploy_trigger_password", hide(config.DeployTriggerPassword)),
		zap.String("action_retry_timeout", config.ActionRetryTimeout),
	)

	goodbye.Register(func(_ context.Context, sig os.Signal) {
		logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
	})

	store, err := sqlite.New(config.DatabasePath)
	exitOnErr(fmt.Sprintf("could not open database %s", config.DatabasePath), err)

	scheduler := action.NewScheduler(
		action.NewRetryer(mustDuration(config.ActionRetryTimeoutDuration())),
		action.WithRoutineDeferFunc(panicHandler),
	)

	res := resolver.New(
		store,
		store,
		newGitClient(config),
		newNotifier(config, scheduler),
		newDeploymentTrigger(config, scheduler),
		steps.NewRecorder(store),
		resolver.WithIntegrationBranch(config.IntegrationBranch),
		resolver.WithGitOperationTimeout(mustDuration(config.GitOperationTimeoutDuration())),
	)

	mux := http.NewServeMux()
	mustRegisterHandlers(config, mux, res, store)

	var servers []*http.Server

	if config.HTTPListenAddr != "" {
		servers = append(servers, startHTTPServer(config.HTTPListenAddr, mux))
	}

	if config.HTTPSListenAddr != "" {
		servers = append(servers, startHTTPSServer(
			config.HTTPSListenAddr,
			config.HTTPSCertFile,
			config.HTTPSKeyFile,
			mux,
		))
	}

	// servers are stopped first, they might still schedule actions
	goodbye.Register(func(context.Context, os.Signal) {
		for _, srv := range servers {
			shutdownServer(srv)
		}

		logger.Debug(
			"stopping action scheduler",
			logfields.Event("action_scheduler_stopping"),
		)
		scheduler.Stop()

		if err := store.Close(); err != nil {
			logger.Warn(
				"closing database failed",
				logfields.Event("database_close_failed"),
				zap.Error(err),
			)
		}
	})

	select {}
}
