package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/adelvo/website/backend/internal/bootstrap"
	"github.com/adelvo/website/backend/internal/model/chat"
	"github.com/adelvo/website/backend/internal/widget"
)

// errQuit ends the session without reporting an error.
var errQuit = errors.New("quit")

// replyWait bounds how long piped input waits for outstanding replies.
const replyWait = 30 * time.Second

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session (default)",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	identity, release, err := openIdentity()
	if err != nil {
		return err
	}
	defer release()

	responder, err := bootstrap.NewResponder(ctx, cfg)
	if err != nil {
		return err
	}

	interactive := isTerminal(cmd.InOrStdin())
	view := newTerminalView(cmd.OutOrStdout(), interactive)

	w, err := widget.New(ctx, widget.Options{
		View:       view,
		Responder:  responder,
		Identity:   identity,
		Source:     cfg.Chat.Source,
		Greeting:   cfg.Chat.Greeting,
		Fallback:   cfg.Chat.Fallback,
		FocusDelay: cfg.Chat.FocusDelay,
	})
	if err != nil {
		return err
	}

	wait := time.Duration(0)
	if !interactive {
		wait = replyWait
	}
	return runSession(ctx, w, cmd.InOrStdin(), view, wait)
}

// runSession runs the widget loop and feeds it lines from in until /quit, end
// of input or ctx is done. With a non-zero replyWait, end of input first waits
// that long for outstanding replies.
func runSession(ctx context.Context, w *widget.Widget, in io.Reader, view *terminalView, replyWait time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return w.Run(gctx) })
	g.Go(func() error {
		if err := w.Open(); err != nil {
			return err
		}

		lines := scanLines(in)
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					if replyWait > 0 {
						awaitReplies(gctx, w, replyWait)
					}
					return errQuit
				}
				if err := handleLine(w, view, line); err != nil {
					return err
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, widget.ErrStopped) {
		return nil
	}
	return err
}

func handleLine(w *widget.Widget, view *terminalView, line string) error {
	switch strings.TrimSpace(line) {
	case "/quit", "/exit":
		return errQuit
	case "/open":
		return w.Open()
	case "/close":
		return w.Close()
	case "/toggle":
		return w.Toggle()
	case "/help":
		view.Help()
		return nil
	default:
		return w.Submit(line)
	}
}

// scanLines reads in on its own goroutine; the reader cannot be interrupted,
// so the goroutine lives until in is exhausted.
func scanLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// awaitReplies returns once every user message has been answered or timeout
// has passed.
func awaitReplies(ctx context.Context, w *widget.Widget, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		msgs, err := w.Messages(ctx)
		if err != nil || answered(msgs) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func answered(msgs []chat.Message) bool {
	var users, bots int
	for _, m := range msgs {
		if m.Origin == chat.OriginUser {
			users++
		} else {
			bots++
		}
	}
	// The greeting is the one bot message without a question.
	return bots-1 >= users
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
