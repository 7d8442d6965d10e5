// README: Terminal chat with Wanders; drives the same conversation controller as the API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"wanderlust/internal/ai"
	"wanderlust/internal/config"
	"wanderlust/internal/modules/conversation"
	"wanderlust/internal/observability"
	"wanderlust/internal/render"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	// Logs go to stderr so they never interleave with the chat.
	observability.Configure(os.Stderr, envOr("WANDERS_LOG_LEVEL", "warn"), "text")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, ai.GeminiOptions{
		APIKey:      cfg.AI.GeminiKey,
		Model:       cfg.AI.Model,
		Temperature: float32(cfg.AI.Temperature),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize AI provider: %v\n", err)
		os.Exit(1)
	}
	defer provider.Close()

	svc := conversation.NewService(provider, conversation.Options{Timeout: cfg.AI.Timeout})
	if err := run(ctx, svc, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *conversation.Service, in io.Reader, out io.Writer) error {
	for _, msg := range svc.Messages() {
		printMessage(out, msg)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/quit":
			return nil
		}

		fmt.Fprintln(out, "Wanders is typing...")
		result, err := svc.Submit(ctx, line)
		switch {
		case errors.Is(err, conversation.ErrEmptyQuery):
			continue
		case err != nil:
			return err
		}
		printMessage(out, result.Bot)
	}
}

func printMessage(out io.Writer, msg conversation.Message) {
	who := "Wanders"
	if msg.Role == conversation.RoleUser {
		who = "You"
	}
	fmt.Fprintf(out, "[%s] %s: %s\n", msg.Timestamp.Format("15:04"), who, msg.Content)
	if msg.CityData != nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, render.CardText(msg.CityData))
		fmt.Fprintln(out)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
