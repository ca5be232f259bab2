package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/codex-k8s/course-crawler-init/internal/app"
	"github.com/codex-k8s/course-crawler-init/internal/audit"
	"github.com/codex-k8s/course-crawler-init/internal/compose"
	"github.com/codex-k8s/course-crawler-init/internal/config"
	"github.com/codex-k8s/course-crawler-init/internal/log"
	"github.com/codex-k8s/course-crawler-init/internal/overlay"
	"github.com/codex-k8s/course-crawler-init/internal/templates"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses flags, builds the pipeline and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crawler-init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Init and scale course crawler.")
		fmt.Fprintln(stderr, "usage: crawler-init [-r replicas] [-c courses-file]")
		fs.PrintDefaults()
	}
	var replicas int
	var coursesFile string
	fs.IntVar(&replicas, "replicas", 1, "number of recorder replicas, must equal the course count")
	fs.IntVar(&replicas, "r", 1, "shorthand for -replicas")
	fs.StringVar(&coursesFile, "courses-file", "courses.csv", "CSV file with an id column")
	fs.StringVar(&coursesFile, "c", "courses.csv", "shorthand for -courses-file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: config: %v\n", err)
		return 1
	}

	logger := log.New(cfg.LogLevel, cfg.LogFormat, stderr)

	messages, err := templates.Load(cfg.Lang)
	if err != nil {
		logger.Error("load templates failed", "error", err)
		return 1
	}

	overlayPath := cfg.OverlayFile
	if !filepath.IsAbs(overlayPath) {
		overlayPath = filepath.Join(cfg.Workdir, overlayPath)
	}

	trigger := compose.Trigger{
		Command: cfg.ComposeCommand,
		Dir:     cfg.Workdir,
		Files:   compose.ProjectFiles(cfg.Workdir, cfg.ComposeFile, overlayPath),
		Env:     cfg.ComposeEnv,
		Runner:  compose.ExecRunner{Stdout: stdout, Stderr: stderr},
		Logger:  logger,
	}

	pipeline, err := app.New(app.Options{
		OverlayPath: overlayPath,
		Overlay: overlay.Options{
			ServicePrefix: cfg.ServicePrefix,
			Extends:       overlay.Extends{Service: cfg.BaseService, File: cfg.BaseFile},
		},
		Deployer:  trigger,
		Messages:  messages,
		Audit:     audit.New(logger),
		Logger:    logger,
		Stdout:    stdout,
		Highlight: highlighter(stdout),
	})
	if err != nil {
		logger.Error("build pipeline failed", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pipeline.Run(ctx, app.Request{Replicas: replicas, CoursesFile: coursesFile}); err != nil {
		msg, renderErr := messages.Render(templates.KeyError, map[string]any{"Error": err.Error()})
		if renderErr != nil {
			msg = "Error: " + err.Error()
		}
		fmt.Fprintln(stderr, msg)
		return 1
	}
	return 0
}

// highlighter colors counts blue when stdout is the terminal.
func highlighter(stdout io.Writer) func(a ...any) string {
	if f, ok := stdout.(*os.File); !ok || f != os.Stdout || color.NoColor {
		return fmt.Sprint
	}
	return color.New(color.FgBlue).SprintFunc()
}
