// Command quizctl generates a quiz for a Wikipedia article through the quiz API.
//
// Without --url it starts an interactive terminal UI; with --url it submits once,
// prints the quiz (or the error) and exits non-zero on failure.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"wiki-quiz/internal/client"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/controller"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("quizctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	articleURL := fs.StringP("url", "u", "", "Wikipedia article URL; generates once and exits")
	asJSON := fs.Bool("json", false, "print the quiz as JSON (with --url)")
	fs.String("api", "", "base URL of the quiz API")
	fs.Duration("timeout", 0, "HTTP timeout for the quiz API")
	fs.String("log-file", "", "write logs to this file")
	fs.String("log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	v := viper.New()
	_ = v.BindPFlag("client.base_url", fs.Lookup("api"))
	_ = v.BindPFlag("client.timeout", fs.Lookup("timeout"))
	_ = v.BindPFlag("logger.file", fs.Lookup("log-file"))
	_ = v.BindPFlag("logger.level", fs.Lookup("log-level"))

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Log lines go to a file or nowhere so they never mix with the UI or the quiz output.
	if cfg.Logger.File != "" {
		if err := logger.Initialize(cfg.Logger); err != nil {
			fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
			return 1
		}
	} else {
		logger.InitializeWithWriter(cfg.Logger, io.Discard)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	quizClient := client.NewQuizClient(cfg.Client.BaseURL, nil, cfg.Client.Timeout)
	ctrl := controller.New(quizClient)
	defer ctrl.Close()

	if *articleURL != "" {
		return generateOnce(ctx, ctrl, *articleURL, *asJSON, stdout, stderr)
	}

	program := tea.NewProgram(tui.New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := ctrl.Subscribe(tui.Forward(program.Send))
	defer unsubscribe()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(stderr, "quizctl: %v\n", err)
		return 1
	}
	return 0
}

func generateOnce(ctx context.Context, ctrl *controller.QuizRequestController, url string, asJSON bool, stdout, stderr io.Writer) int {
	ctrl.OnInputChange(url)
	<-ctrl.Submit(ctx)

	snap := ctrl.State()
	if msg, failed := snap.ErrorMessage(); failed {
		fmt.Fprintln(stderr, msg)
		return 1
	}
	quiz := snap.Result()
	if quiz == nil {
		fmt.Fprintln(stderr, controller.DefaultFailureMessage)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(quiz); err != nil {
			fmt.Fprintf(stderr, "failed to encode quiz: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, tui.RenderQuiz(quiz))
	return 0
}
