package chatcmder

import (
	"context"

	"github.com/spf13/cobra"

	"socratic-tutor/internal/adapter/memory"
	"socratic-tutor/internal/adapter/terminal"
	"socratic-tutor/internal/app"
	"socratic-tutor/internal/usecase/chat"
)

const chatLongDesc string = `Start an interactive tutoring session in the terminal.

Type a math question to get a guided, step-by-step hint. Attach a photo or
screenshot of a problem with /attach before sending your question. The
conversation lives in memory and is gone when you quit.

Examples:
  tutor chat
  tutor --env ~/.tutor.env chat`

const chatShortDesc string = "Chat with the tutor in the terminal"

type chatCommander struct {
	opts     *app.Options
	wordWrap int
	plain    bool
}

func NewChatCmd(opts *app.Options) *cobra.Command {
	cmder := &chatCommander{opts: opts}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().IntVar(&cmder.wordWrap, "wrap", 80, "Word wrap width for rendered replies")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print replies without markdown rendering")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command) error {
	a, err := app.Setup(ctx, *c.opts)
	if err != nil {
		return err
	}
	defer a.Close()

	render := terminal.PlainRenderer
	if !c.plain {
		render = terminal.MarkdownRenderer(c.wordWrap)
	}

	line := terminal.NewLiner()
	defer line.Close()

	svc := chat.NewService(memory.NewStore(), a.Model, a.Logger)
	return terminal.NewREPL(line, cmd.OutOrStdout(), svc, render, a.Logger).Run(ctx)
}
