package app

import (
	"strings"

	"github.com/spf13/cobra"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/model"
)

func (s *runtimeState) newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <command string>",
		Short: "Parse a DSL command without touching the chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := intent.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), parsedIntentView(in))
		},
	}
	return cmd
}

func parsedIntentView(in intent.Intent) model.ParsedIntent {
	view := model.ParsedIntent{
		Operation: string(in.Operation),
		Command:   in.Command(),
		Amount:    in.Amount,
		AmountAll: in.AmountIsMax,
		Token:     in.Token.Symbol,
		Recipient: in.Recipient,
		RateMode:  in.RateMode,
	}
	if in.TokenOut.Symbol != "" {
		view.TokenOut = in.TokenOut.Symbol
	}
	return view
}

// parseUserCommand is the shared entry for exec and chat: both feed DSL text
// to the same parser, whether a human or the model wrote it.
func parseUserCommand(command string) (intent.Intent, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return intent.Intent{}, clierr.New(clierr.CodeMalformedCommand, "empty command")
	}
	return intent.Parse(command)
}
