// Package main provides the mailmind binary: the HTTP server and one-shot
// task commands over the email assistant.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/mailmind/internal/profile"
)

const (
	Version = "0.1.0"
	appName = "mailmind"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds the flags shared by every command.
type cli struct {
	v          *viper.Viper
	configPath string
	logLevel   string
	logFormat  string
}

func rootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Multi-model AI email assistant",
		Long: `mailmind analyzes, summarizes, improves and drafts email with whichever
LLM provider is configured, and answers from a deterministic rule engine
when none is.

Credentials are read from MAILMIND_<PROVIDER>_API_KEY or the vendor's own
variable (OPENROUTER_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(c.logLevel, c.logFormat)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&c.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&c.logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringSlice("model-priority", nil, "Model selection order, e.g. gpt-4o,qwen-4-turbo")
	flags.Duration("request-timeout", profile.DefaultRequestTimeout, "Per-request model timeout")
	_ = c.v.BindPFlag("model-priority", flags.Lookup("model-priority"))
	_ = c.v.BindPFlag("request-timeout", flags.Lookup("request-timeout"))

	cmd.AddCommand(
		serveCmd(c),
		modelsCmd(c),
		analyzeCmd(c),
		replyCmd(c),
		summarizeCmd(c),
		suggestCmd(c),
		templateCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// profile loads the process configuration.
func (c *cli) profile() (*profile.Profile, error) {
	c.v.SetDefault("version", Version)
	return profile.Load(c.v, c.configPath)
}

func setupLogging(level, format string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
