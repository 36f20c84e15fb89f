// Command-line client for the Legal AI backend
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"legalai/legalai/config"
	"legalai/legalai/services/backend"
	"legalai/legalai/services/chat"
	"legalai/legalai/utils/color"
	"legalai/legalai/utils/logging"
	"legalai/legalai/utils/types"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		color.Disable()
	}

	token := os.Getenv("LEGALAI_TOKEN")
	api := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) < 1 {
		usage(os.Stderr)
		os.Exit(1)
	}
	switch args[0] {
	case "chat":
		os.Exit(runChat(ctx, api, token, os.Stdin, os.Stdout))
	case "history":
		os.Exit(runHistory(ctx, api, token, os.Stdout))
	default:
		usage(os.Stderr)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Legal AI CLI usage:")
	fmt.Fprintln(w, "  legalai chat      # Ask questions in this terminal")
	fmt.Fprintln(w, "  legalai history   # Print your stored conversation")
	fmt.Fprintln(w, "Set LEGALAI_TOKEN to your session token.")
}

// runChat is the terminal version of the client chat page: one view per
// run, history first, then a question/answer loop.
func runChat(ctx context.Context, api chat.Backend, token string, in io.Reader, out io.Writer) int {
	v := chat.NewView(api, "cli")
	defer v.Close()
	go func() {
		select {
		case <-ctx.Done():
			v.Close()
		case <-v.Done():
		}
	}()

	if err := v.LoadHistory(token); err != nil {
		fmt.Fprintln(out, color.ColorWarning(v.Snapshot().Error))
	}
	printTranscript(out, v.Snapshot().Messages)

	fmt.Fprintln(out, color.ColorInfo("Session: "+v.SessionID))
	fmt.Fprintln(out, "Type your legal question or 'exit' to quit.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt("legalai> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		answer, err := v.Submit(line, token)
		switch {
		case errors.Is(err, chat.ErrEmptyQuestion):
			continue
		case errors.Is(err, chat.ErrViewClosed):
			fmt.Fprintln(out)
			return 0
		case err != nil:
			logging.ErrorLogger.Error("cli ask failed", zap.Error(err))
			fmt.Fprintln(out, color.ColorError("Error fetching answer"))
			continue
		}
		fmt.Fprintln(out, color.ColorAssistant("Assistant: ")+answer.Content)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "Goodbye!")
	fmt.Fprintln(out, color.ColorInfo("Disclaimer: This is not legal advice."))
	return 0
}

func runHistory(ctx context.Context, api chat.Backend, token string, out io.Writer) int {
	history, err := api.FetchChatHistory(ctx, token)
	if err != nil {
		fmt.Fprintln(out, color.ColorError(err.Error()))
		return 1
	}
	if len(history) == 0 {
		fmt.Fprintln(out, color.ColorInfo("No previous conversations."))
		return 0
	}
	printTranscript(out, history)
	return 0
}

func printTranscript(out io.Writer, msgs []types.ChatMessage) {
	for _, m := range msgs {
		switch {
		case m.Status == types.StatusFailed:
			fmt.Fprintln(out, color.ColorFailed("You (not answered): ")+m.Content)
		case m.Role == types.RoleUser:
			fmt.Fprintln(out, color.ColorUser("You: ")+m.Content)
		default:
			fmt.Fprintln(out, color.ColorAssistant("Assistant: ")+m.Content)
		}
	}
}
