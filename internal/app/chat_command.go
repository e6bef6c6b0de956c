package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/execution"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/llm"
)

// chat runs the conversational loop: free text goes to the model, command
// replies go through the parser and, after an explicit yes, to the executor.
// A message reply is printed and the loop continues.
func (s *runtimeState) newChatCommand() *cobra.Command {
	var personaArg string
	var yes bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the intent parser and execute what it produces",
		RunE: func(cmd *cobra.Command, args []string) error {
			persona, err := resolvePersona(personaArg)
			if err != nil {
				return err
			}
			client, err := llm.NewClient(llm.Config{
				APIKey:  s.settings.LLMAPIKey,
				BaseURL: s.settings.LLMBaseURL,
				Model:   s.settings.LLMModel,
				Timeout: s.settings.Timeout,
				Retries: s.settings.Retries,
			})
			if err != nil {
				return err
			}
			return s.runChatLoop(cmd.Context(), client, persona, yes)
		},
	}
	cmd.Flags().StringVar(&personaArg, "persona", "sendswap", "Chat persona: sendswap, lending, or trading")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Execute parsed commands without asking")
	return cmd
}

func resolvePersona(arg string) (llm.Persona, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "sendswap", "send-swap":
		return llm.PersonaSendSwap, nil
	case "lending", "aave":
		return llm.PersonaLending, nil
	case "trading", "trade":
		return llm.PersonaTrading, nil
	default:
		return "", clierr.New(clierr.CodeUsage, "persona must be sendswap, lending, or trading")
	}
}

func (s *runtimeState) runChatLoop(ctx context.Context, client *llm.Client, persona llm.Persona, autoConfirm bool) error {
	transcript := llm.NewTranscript()
	reader := bufio.NewReader(s.runner.stdin)
	out := s.runner.stdout

	color.New(color.FgCyan).Fprintf(out, "intent chat (%s persona, session %s)\n", persona, transcript.SessionID)
	fmt.Fprintln(out, "Type what you want to do, or \"exit\" to quit.")

	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return clierr.Wrap(clierr.CodeInternal, "read input", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		reply, err := s.askModel(ctx, client, persona, transcript, line)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "error: %v\n", err)
			continue
		}
		transcript.AddUser(line)

		if reply.Kind == llm.KindMessage {
			transcript.AddAssistant(reply.Message)
			fmt.Fprintln(out, reply.Message)
			continue
		}
		transcript.AddAssistant(reply.Command)

		in, err := parseUserCommand(reply.Command)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "the model produced an invalid command %q: %v\n", reply.Command, err)
			continue
		}

		color.New(color.FgYellow).Fprintf(out, "parsed: %s\n", in.Command())
		if !autoConfirm && !s.confirm(reader, out) {
			fmt.Fprintln(out, "skipped")
			continue
		}

		record, err := s.runIntent(ctx, in)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "execution failed: %v\n", err)
			if record.TxHash != "" {
				fmt.Fprintf(out, "  tx: %s\n", record.TxHash)
			}
			continue
		}
		color.New(color.FgGreen).Fprintln(out, "confirmed")
		if record.ApprovalTxHash != "" {
			fmt.Fprintf(out, "  approval tx: %s\n", record.ApprovalTxHash)
		}
		fmt.Fprintf(out, "  tx: %s\n", record.TxHash)
	}
}

func (s *runtimeState) askModel(ctx context.Context, client *llm.Client, persona llm.Persona, transcript *llm.Transcript, line string) (llm.Reply, error) {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(s.runner.stderr))
	sp.Suffix = " Thinking..."
	sp.Start()
	reply, err := client.Complete(ctx, persona, transcript, line)
	sp.Stop()
	return reply, err
}

func (s *runtimeState) runIntent(ctx context.Context, in intent.Intent) (execution.Record, error) {
	gw, err := s.openGateway(ctx)
	if err != nil {
		return execution.Record{}, err
	}
	store, err := s.openStore()
	if err != nil {
		return execution.Record{}, err
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(s.runner.stderr))
	sp.Suffix = " Executing..."
	sp.Start()
	executor := execution.NewExecutor(gw, store, s.executorOptions())
	record, err := executor.Execute(ctx, in)
	sp.Stop()
	return record, err
}

func (s *runtimeState) confirm(reader *bufio.Reader, out io.Writer) bool {
	fmt.Fprint(out, "execute? [y/N] ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
