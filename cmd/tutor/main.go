package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	chatcmder "socratic-tutor/cmd/tutor/chat"
	telegramcmder "socratic-tutor/cmd/tutor/telegram"
	"socratic-tutor/internal/app"
)

const rootLongDesc string = `A Socratic math tutor.

The tutor guides you through a problem with questions instead of handing
over the answer. Configure it with environment variables or a .env file:
API_KEY (required), TUTOR_PROVIDER (gemini, openai or ark), TUTOR_MODEL,
THINKING_BUDGET and REQUEST_TIMEOUT. THINKING_BUDGET defaults to 32768 for
gemini; other providers only receive a reasoning effort when it is set.`

func newRootCmd() *cobra.Command {
	opts := &app.Options{}

	cmd := &cobra.Command{
		Use:           "tutor",
		Short:         "A Socratic math tutor",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", ".env", "Path to a .env file")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Path to a TOML config file")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(chatcmder.NewChatCmd(opts))
	cmd.AddCommand(telegramcmder.NewTelegramCmd(opts))

	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
