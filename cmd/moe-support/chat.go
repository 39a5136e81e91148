package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	moesupport "github.com/satyamsundaram01/moe-support-assist"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
	"github.com/satyamsundaram01/moe-support-assist/session"
)

var (
	chatSessionID     string
	chatLLMRoot       bool
	chatShowReasoning bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive support chat against the agent team",
	Long: `chat starts a terminal conversation with the support team.

Each line runs one turn: the SupportChatManager classifies the message and
answers or hands off to a specialist, whose events stream back as they are
produced. Reasoning the planners keep off the user surface stays hidden
unless --show-reasoning is set.

Sessions live in memory unless DATABASE_URL points at Postgres, in which
case history and state persist across runs. End the conversation with
"exit" or Ctrl+D.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "session id to continue (default: a fresh id)")
	chatCmd.Flags().BoolVar(&chatLLMRoot, "llm-root", false, "use the model-driven root instead of the rule-based one")
	chatCmd.Flags().BoolVar(&chatShowReasoning, "show-reasoning", false, "print hidden reasoning parts and tool traffic")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewZerologConsoleLogger(logging.ParseLogLevel(cfg.LogLevel))

	team, err := moesupport.NewTeamFromConfig(ctx, cfg, func(o *moesupport.TeamOptions) {
		o.LLMRoot = chatLLMRoot
	})
	if err != nil {
		return fmt.Errorf("assemble team: %w", err)
	}

	optFns := []func(o *moesupport.Options){
		func(o *moesupport.Options) { o.Logger = logger },
	}
	if cfg.Database.URL != "" {
		store, err := session.NewPostgresStore(cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect session store: %w", err)
		}
		defer store.Close()
		if err := store.Init(ctx); err != nil {
			return err
		}
		optFns = append(optFns, func(o *moesupport.Options) { o.SessionStore = store })
	}

	assistant := moesupport.New(team, optFns...)

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = core.NewID()
	}

	fmt.Printf("MoEngage Support Assistant %s (session %s)\n", moesupport.Version, sessionID)
	fmt.Println(`Type a message and press enter; "exit" quits.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := runTurn(ctx, assistant, sessionID, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
		}
	}
	return scanner.Err()
}

// runTurn executes one invocation and renders its event stream.
func runTurn(ctx context.Context, assistant *moesupport.Assistant, sessionID, text string) error {
	_, eventsCh, errorsCh, err := assistant.Invoke(ctx, sessionID, core.Content{
		Role:  "user",
		Parts: []core.Part{core.TextPart{Text: text}},
	})
	if err != nil {
		return err
	}

	var turnErr error
	for eventsCh != nil || errorsCh != nil {
		select {
		case ev, ok := <-eventsCh:
			if !ok {
				eventsCh = nil
				continue
			}
			printEvent(ev)
		case err, ok := <-errorsCh:
			if !ok {
				errorsCh = nil
				continue
			}
			if err != nil {
				turnErr = err
			}
		}
	}
	return turnErr
}

// printEvent renders one event. Partial fragments are skipped; the complete
// event that follows them carries the full text.
func printEvent(ev core.Event) {
	if ev.IsPartial() {
		return
	}

	if ev.Content != nil {
		for _, p := range ev.Content.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Thought && !chatShowReasoning {
					continue
				}
				author := ev.Author
				if part.Thought {
					author += " [reasoning]"
				}
				fmt.Printf("\n[%s]\n%s\n", author, part.Text)
			case core.FunctionCallPart:
				if chatShowReasoning {
					fmt.Printf("\n[%s -> tool call]\n%s %s\n", ev.Author, part.FunctionCall.Name, part.FunctionCall.Arguments)
				}
			case core.FunctionResponsePart:
				if chatShowReasoning {
					fmt.Printf("\n[%s -> tool result]\n%s => %v\n", ev.Author, part.FunctionResponse.Name, part.FunctionResponse.Response)
				}
			}
		}
	}

	if ev.Actions.TransferToAgent != nil {
		fmt.Printf("\n>> handing off to %s\n", *ev.Actions.TransferToAgent)
	}
	if ev.IsError() {
		fmt.Printf("\n!! %s\n", *ev.ErrorMessage)
	}
}
