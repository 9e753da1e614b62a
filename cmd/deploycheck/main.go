// deploycheck verifies a freshly deployed container is actually serving
// traffic before the deploy is declared successful.
//
// Usage:
//
//	deploycheck APP [CONTAINER] [TYPE] [PORT] [IP]
//
// Missing CONTAINER/PORT/IP are resolved from the app state directory. TYPE
// defaults to "web"; other process types get a liveness-only probe.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/hamed0406/deploycheck/internal/appstate"
	"github.com/hamed0406/deploycheck/internal/checks"
	"github.com/hamed0406/deploycheck/internal/config"
	"github.com/hamed0406/deploycheck/internal/container"
	"github.com/hamed0406/deploycheck/internal/logging"
	"github.com/hamed0406/deploycheck/internal/notify"
	"github.com/hamed0406/deploycheck/internal/probe"
	"github.com/hamed0406/deploycheck/internal/report"
	"github.com/hamed0406/deploycheck/internal/runner"
)

const logTailLines = 25

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: deploycheck APP [CONTAINER] [TYPE] [PORT] [IP]")
		return 1
	}

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.Verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	rep := report.NewZap(logger)

	app := args[0]
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	containerID, procType, port, ip := arg(1), arg(2), arg(3), arg(4)
	if procType == "" {
		procType = "web"
	}

	// Fill anything the invoker left out from the persisted app state.
	state := appstate.Load(cfg.AppRoot, app)
	if containerID == "" {
		containerID = state.ContainerID
	}
	if port == "" {
		port = state.Port
	}
	if ip == "" {
		ip = state.IP
	}
	if ip == "" {
		ip = "127.0.0.1"
	}
	if port == "" {
		port = "5000"
	}
	if containerID == "" {
		rep.Fail("no_container", zap.String("app", app))
		return 1
	}

	rt, err := container.NewDocker(logger)
	if err != nil {
		rep.Fail("runtime_unavailable", zap.Error(err))
		return 1
	}

	ctx := context.Background()
	notifier := notify.NewSlack(cfg.SlackWebhook)

	err = check(ctx, cfg, rep, rt, containerID, procType, probe.Target{IP: ip, Port: port})

	outcome := notify.Outcome{App: app, Type: procType, Passed: err == nil}
	if err != nil {
		outcome.Summary = err.Error()
	}
	if notifier != nil {
		if nerr := notifier.Send(ctx, outcome); nerr != nil {
			rep.Warn("notify_failed", zap.Error(nerr))
		}
	}

	if err != nil {
		rep.Fail("deploy_checks_failed",
			zap.String("app", app),
			zap.String("type", procType),
			zap.Error(err),
		)
		tailLogs(ctx, rt, rep, containerID)
		return 1
	}
	rep.Info("deploy_checks_passed", zap.String("app", app), zap.String("type", procType))
	return 0
}

// check picks the path: parsed checks through the attempt loop for web
// processes with a CHECKS file, the liveness-only fallback otherwise.
func check(ctx context.Context, cfg config.Config, rep report.Reporter, rt container.Runtime, containerID, procType string, target probe.Target) error {
	var specs []checks.CheckSpec
	settings := cfg.Settings

	if procType == "web" {
		raw, err := rt.FetchFile(ctx, containerID, cfg.ChecksPath)
		switch {
		case errors.Is(err, container.ErrFileNotFound):
			rep.Info("no_checks_file", zap.String("path", cfg.ChecksPath))
		case err != nil:
			rep.Warn("checks_file_unavailable", zap.Error(err))
		default:
			settings, specs = checks.Parse(string(raw), cfg.Settings)
		}
	}

	r := runner.New(nil, rep, settings)
	if procType != "web" || len(specs) == 0 {
		return r.Fallback(ctx, rt, containerID, cfg.FallbackWait)
	}

	r.Checker = probe.NewExecutor(settings.Timeout, rep)
	rep.Info("running_checks",
		zap.Int("checks", len(specs)),
		zap.String("target", target.String()),
		zap.Duration("wait", settings.Wait),
		zap.Duration("timeout", settings.Timeout),
		zap.Int("attempts", settings.Attempts),
	)
	return r.Run(ctx, specs, target)
}

func tailLogs(ctx context.Context, rt container.Runtime, rep report.Reporter, containerID string) {
	out, err := rt.Logs(ctx, containerID, logTailLines)
	if err != nil {
		rep.Warn("log_tail_failed", zap.Error(err))
		return
	}
	rep.Info("container_log_tail", zap.String("container", containerID), zap.String("output", out))
}
