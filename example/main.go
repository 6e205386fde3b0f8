package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/B00TK1D/promptline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promptline-example",
	Short: "Interactive console demo",
	Long:  `Reads commands from the terminal while background log lines scroll above the prompt.`,
	RunE:  run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().String("prompt", ">", "Prompt shown before the input line")
	rootCmd.Flags().Bool("cooperative", false, "Run the loop on the main goroutine (enables history)")
	rootCmd.Flags().Bool("no-defaults", false, "Do not register help, debug, exit and close")
	rootCmd.Flags().String("config", "", "YAML config file")
	rootCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	p := promptline.NewPrinter(os.Stdout)
	level := new(slog.LevelVar)
	logger := slog.New(promptline.NewLogHandler(p, level))
	opts = append(opts, promptline.WithPrinter(p), promptline.WithLogger(logger, level))

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, promptline.WithMetrics(reg))
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			logger.Info("Serving metrics", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("Metrics server stopped", "err", err)
			}
		}()
	}

	console, err := promptline.New(opts...)
	if err != nil {
		return err
	}
	if err := registerCommands(console); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		count := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count++
				logger.Debug("Background message", "n", count)
			}
		}
	}()

	if err := console.Start(ctx); err != nil {
		return ignoreStop(err)
	}
	return ignoreStop(console.Wait())
}

func optionsFromFlags(cmd *cobra.Command) ([]promptline.Option, error) {
	var opts []promptline.Option
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := promptline.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		if opts, err = cfg.Options(); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("prompt") || len(opts) == 0 {
		prompt, _ := cmd.Flags().GetString("prompt")
		opts = append(opts, promptline.WithPrompt(prompt))
	}
	if cooperative, _ := cmd.Flags().GetBool("cooperative"); cooperative {
		opts = append(opts, promptline.WithMode(promptline.ModeCooperative))
	}
	if noDefaults, _ := cmd.Flags().GetBool("no-defaults"); noDefaults {
		opts = append(opts, promptline.WithoutDefaults())
	}
	return opts, nil
}

func registerCommands(c *promptline.Console) error {
	p := c.Printer()

	if err := c.Register("echo", "Echo the arguments", promptline.Any(), func(ctx context.Context, args ...string) error {
		p.Println(args)
		return nil
	}); err != nil {
		return err
	}

	if err := c.Register("add", "Add two integers", promptline.Exactly(2), func(ctx context.Context, args ...string) error {
		a, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		b, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		p.Printf("%d + %d = %d", a, b, a+b)
		return nil
	}); err != nil {
		return err
	}

	if err := c.Register("sleep", "Sleep for a number of seconds", promptline.Exactly(1), func(ctx context.Context, args ...string) error {
		seconds, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		p.Printf("Sleeping for %d seconds...", seconds)
		select {
		case <-time.After(time.Duration(seconds) * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
		p.Println("Awake!")
		return nil
	}); err != nil {
		return err
	}

	//nolint:staticcheck // demonstrates the deprecated calling convention
	return c.RegisterLegacy("say", "Print the arguments as a list", func(args []string) error {
		p.Printf("%q", args)
		return nil
	})
}

func ignoreStop(err error) error {
	if errors.Is(err, promptline.ErrInterrupted) {
		return nil
	}
	return err
}
