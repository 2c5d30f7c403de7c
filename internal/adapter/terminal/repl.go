// Package terminal is the interactive command-line front-end.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/prompts"
	"socratic-tutor/internal/usecase/attachment"
	"socratic-tutor/internal/usecase/chat"
)

const helpText = `Commands:
  /attach <path>  attach an image of a problem to your next message
  /detach         drop the pending image
  /history        show the conversation so far
  /help           show this help
  /quit           leave the tutor`

// LineReader is satisfied by *liner.State.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type REPL struct {
	in      LineReader
	out     io.Writer
	svc     *chat.Service
	render  Renderer
	logger  *zap.Logger
	open    func(path string) attachment.Source
	pending *domain.Attachment
	name    string
}

func NewREPL(in LineReader, out io.Writer, svc *chat.Service, render Renderer, logger *zap.Logger) *REPL {
	return &REPL{
		in:     in,
		out:    out,
		svc:    svc,
		render: render,
		logger: logger,
		open: func(path string) attachment.Source {
			return attachment.NewLocalFile(path)
		},
	}
}

// NewLiner returns a line editor with history and Ctrl-C handling. The
// caller closes it.
func NewLiner() *liner.State {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

// Run reads input until /quit, end of input or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	r.banner()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := r.in.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			if r.pending != nil {
				r.submit(ctx, "")
			}
			continue
		}
		r.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if !r.command(ctx, input) {
				return nil
			}
			continue
		}

		r.submit(ctx, input)
	}
}

func (r *REPL) banner() {
	fmt.Fprintf(r.out, "%s  %s\n", titleStyle.Render("Socratic Tutor"), badgeStyle.Render("Deep Reasoning Enabled"))
	fmt.Fprintln(r.out, infoStyle.Render("Powered by "+r.svc.ModelName()+". Type /help for commands."))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.render(prompts.OpeningLine))
}

func (r *REPL) prompt() string {
	if r.pending != nil {
		return promptStyle.Render("tutor [image]> ")
	}
	return promptStyle.Render("tutor> ")
}

// command runs a slash command and reports whether the loop continues.
func (r *REPL) command(ctx context.Context, input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/exit":
		return false
	case "/help":
		fmt.Fprintln(r.out, infoStyle.Render(helpText))
	case "/attach":
		r.attach(ctx, arg)
	case "/detach":
		if r.pending == nil {
			fmt.Fprintln(r.out, infoStyle.Render("No image attached."))
			break
		}
		fmt.Fprintln(r.out, infoStyle.Render("Removed "+r.name+"."))
		r.pending, r.name = nil, ""
	case "/history":
		r.history()
	default:
		fmt.Fprintln(r.out, warningStyle.Render("Unknown command "+name+". Type /help for commands."))
	}
	return true
}

func (r *REPL) attach(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(r.out, warningStyle.Render("Usage: /attach <path>"))
		return
	}

	src := r.open(path)
	image, err := attachment.Encode(ctx, src)
	if err != nil {
		r.logger.Debug("attachment rejected", zap.String("path", path), zap.Error(err))
		r.failure(err)
		return
	}

	r.pending, r.name = &image, src.Name()
	fmt.Fprintf(r.out, "%s %s (%s, %s)\n",
		infoStyle.Render("Attached"),
		r.name,
		image.MediaType,
		humanize.Bytes(uint64(image.Size)),
	)
}

func (r *REPL) submit(ctx context.Context, text string) {
	fmt.Fprintln(r.out, infoStyle.Render("Thinking..."))

	reply, err := r.svc.Submit(ctx, chat.Input{Text: text, Image: r.pending})
	if err != nil {
		r.failure(err)
		return
	}

	r.pending, r.name = nil, ""
	r.printMessage(reply)
}

func (r *REPL) history() {
	messages := r.svc.Snapshot()
	if len(messages) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("No messages yet."))
		return
	}
	for _, msg := range messages {
		r.printMessage(msg)
	}
}

func (r *REPL) printMessage(msg domain.Message) {
	if msg.Role == domain.RoleUser {
		fmt.Fprintln(r.out, userStyle.Render("You"))
		if msg.HasImage() {
			mediaType, _, err := domain.SplitDataURL(msg.Image)
			if err != nil {
				mediaType = "unreadable"
			}
			fmt.Fprintln(r.out, infoStyle.Render("[image: "+mediaType+"]"))
		}
		if msg.Text != "" {
			fmt.Fprintln(r.out, msg.Text)
		}
		fmt.Fprintln(r.out)
		return
	}

	fmt.Fprintln(r.out, tutorStyle.Render("Tutor"))
	fmt.Fprintln(r.out, r.render(msg.Text))
}

func (r *REPL) failure(err error) {
	var readErr *attachment.ReadError
	var modelErr *chat.ModelInvocationError

	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		fmt.Fprintln(r.out, warningStyle.Render("Type a question or attach an image first."))
	case errors.Is(err, chat.ErrBusy):
		fmt.Fprintln(r.out, warningStyle.Render("Still waiting for the previous reply."))
	case errors.Is(err, attachment.ErrUnsupportedMediaType):
		fmt.Fprintln(r.out, warningStyle.Render("Please upload an image file"))
	case errors.As(err, &readErr):
		fmt.Fprintf(r.out, "%s %v\n", errorStyle.Render("[Error]"), readErr)
	case errors.As(err, &modelErr):
		fmt.Fprintf(r.out, "%s %v\n", errorStyle.Render("[Error]"), modelErr.Err)
		fmt.Fprintln(r.out, infoStyle.Render("Please try again."))
	default:
		fmt.Fprintf(r.out, "%s %v\n", errorStyle.Render("[Error]"), err)
	}
}
