// Command batai runs declarative agent crews: it loads a crew definition,
// wires the configured reasoning provider and memory backend, and executes
// the crew's tasks with priority ordering and bounded retries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BatAIInc/bat-ai-core/pkg/config"
	"github.com/BatAIInc/bat-ai-core/pkg/orchestrator"
	"github.com/BatAIInc/bat-ai-core/pkg/telemetry"
)

const version = "0.1.0"

type globalFlags struct {
	ConfigPath string
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		fatal(err)
	}

	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	switch args[0] {
	case "run":
		if err := runCrew(ctx, cfg, args[1:], logger); err != nil {
			fatal(err)
		}
	case "validate":
		if err := validateCrew(args[1:]); err != nil {
			fatal(err)
		}
	case "version":
		fmt.Println("batai", version)
	case "help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", args[0]))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var flags globalFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func validateCrew(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: batai validate <crew.yaml>")
	}
	crew, err := orchestrator.LoadCrewFile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("crew ok: %d agents, %d tasks\n", len(crew.Agents), len(crew.Tasks))
	return nil
}

func runCrew(ctx context.Context, cfg *config.Config, args []string, logger *slog.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: batai run <crew.yaml>")
	}

	crew, err := orchestrator.LoadCrewFile(args[0])
	if err != nil {
		return err
	}

	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.Orchestrator.BuildCrew(crew, app.Provider, app.AgentOptions...); err != nil {
		return err
	}

	start := time.Now()
	results := app.Orchestrator.Kickoff(ctx)
	logger.Info("crew finished", "tasks", len(results), "elapsed", time.Since(start).String())

	for i, result := range results {
		fmt.Printf("--- task %d ---\n%s\n", i+1, result)
	}
	return nil
}

func printUsage() {
	fmt.Println(`batai - multi-agent task orchestration

Usage:
  batai [--config <file>] <command> [arguments]

Commands:
  run <crew.yaml>       run a crew definition
  validate <crew.yaml>  check a crew definition without running it
  version               print the version
  help                  show this help

Configuration is read from the optional --config YAML file and from
BATAI_* environment variables (for example BATAI_LLM_PROVIDER).`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
