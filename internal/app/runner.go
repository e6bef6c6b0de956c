package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ggonzalez94/intent-cli/internal/config"
	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/execution"
	"github.com/ggonzalez94/intent-cli/internal/gateway"
	"github.com/ggonzalez94/intent-cli/internal/gateway/signer"
	"github.com/ggonzalez94/intent-cli/internal/model"
	"github.com/ggonzalez94/intent-cli/internal/out"
	"github.com/ggonzalez94/intent-cli/internal/policy"
	"github.com/ggonzalez94/intent-cli/internal/registry"
	"github.com/ggonzalez94/intent-cli/internal/version"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithStreams(os.Stdout, os.Stderr, os.Stdin)
}

func NewRunnerWithStreams(stdout, stderr io.Writer, stdin io.Reader) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
		stdin:  stdin,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner      *Runner
	flags       config.GlobalFlags
	settings    config.Settings
	root        *cobra.Command
	lastCommand string

	gw    *gateway.EthGateway
	store *execution.Store
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r}
	root := state.newRootCommand()
	state.root = root
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	err = normalizeRunError(err)
	state.closeResources()
	if err == nil {
		return 0
	}
	state.renderError("", err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) closeResources() {
	if s.gw != nil {
		s.gw.Close()
		s.gw = nil
	}
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Natural-language intent execution for EVM chains",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "load configuration", err)
			}
			s.settings = settings
			s.lastCommand = trimRootPath(cmd.CommandPath())
			return policy.CheckCommandAllowed(settings.EnableCommands, s.lastCommand)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Wrap(clierr.CodeUsage, "parse flags", err)
	})

	cmd.PersistentFlags().BoolVar(&s.flags.JSON, "json", false, "Output JSON")
	cmd.PersistentFlags().BoolVar(&s.flags.Plain, "plain", false, "Output plain text (default)")
	cmd.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&s.flags.EnableCommands, "enable-commands", "", "Allowlist command paths (comma-separated)")
	cmd.PersistentFlags().Int64Var(&s.flags.ChainID, "chain-id", 0, "EVM chain id")
	cmd.PersistentFlags().StringVar(&s.flags.RPCURL, "rpc-url", "", "JSON-RPC endpoint URL")
	cmd.PersistentFlags().StringVar(&s.flags.Timeout, "timeout", "", "Per-request timeout")
	cmd.PersistentFlags().IntVar(&s.flags.Retries, "retries", -1, "Retries for model endpoint requests")
	cmd.PersistentFlags().Int64Var(&s.flags.SlippageBps, "slippage-bps", 0, "Slippage tolerance in basis points")
	cmd.PersistentFlags().StringVar(&s.flags.ConfirmWait, "confirm-wait", "", "How long to wait for a transaction receipt")
	cmd.PersistentFlags().StringVar(&s.flags.LLMModel, "llm-model", "", "Chat completion model name")
	cmd.PersistentFlags().StringVar(&s.flags.LLMBaseURL, "llm-base-url", "", "OpenAI-compatible endpoint base URL")

	cmd.AddCommand(s.newParseCommand())
	cmd.AddCommand(s.newExecCommand())
	cmd.AddCommand(s.newChatCommand())
	cmd.AddCommand(s.newTokensCommand())
	cmd.AddCommand(s.newBalancesCommand())
	cmd.AddCommand(s.newHistoryCommand())
	cmd.AddCommand(s.newStatusCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			if long {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Long())
				return
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.CLIVersion)
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print extended build metadata")
	return cmd
}

// openGateway dials the configured RPC endpoint with the local signer. The
// gateway is cached on the state so a chat session reuses one connection.
func (s *runtimeState) openGateway(ctx context.Context) (*gateway.EthGateway, error) {
	if s.gw != nil {
		return s.gw, nil
	}
	rpcURL, err := registry.ResolveRPCURL(s.settings.RPCURL, s.settings.ChainID)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "resolve rpc endpoint", err)
	}
	txSigner, err := signer.NewLocalSignerFromEnv(signer.KeySourceAuto)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeSigner, "load signing key", err)
	}
	gw, err := gateway.Dial(ctx, rpcURL, txSigner, gateway.DefaultOptions())
	if err != nil {
		return nil, err
	}
	s.gw = gw
	return gw, nil
}

func (s *runtimeState) openStore() (*execution.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := execution.OpenStore(s.settings.StorePath, s.settings.StoreLockPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "open execution store", err)
	}
	s.store = store
	return store, nil
}

func (s *runtimeState) executorOptions() execution.Options {
	return execution.Options{
		ConfirmationTimeout: s.settings.ConfirmWait,
		SlippageBps:         s.settings.SlippageBps,
	}
}

func (s *runtimeState) emitSuccess(commandPath string, data any) error {
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: true,
		Data:    data,
		Error:   nil,
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
			ChainID:   s.settings.ChainID,
		},
	}
	return out.Render(s.runner.stdout, env, s.settings)
}

func (s *runtimeState) renderError(commandPath string, err error) {
	if strings.TrimSpace(commandPath) == "" {
		commandPath = s.lastCommand
		if commandPath == "" {
			commandPath = version.CLIName
		}
	}
	code := clierr.ExitCode(err)
	message := err.Error()
	if cErr, ok := clierr.As(err); ok {
		message = cErr.Message
		if cErr.Cause != nil {
			message = fmt.Sprintf("%s: %v", cErr.Message, cErr.Cause)
		}
	}

	settings := s.settings
	if settings.OutputMode == "" {
		settings.OutputMode = "plain"
	}
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: false,
		Error: &model.ErrorBody{
			Code:    code,
			Type:    errorType(err),
			Message: message,
		},
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
			ChainID:   settings.ChainID,
		},
	}
	_ = out.Render(s.runner.stderr, env, settings)
}

func errorType(err error) string {
	cErr, ok := clierr.As(err)
	if !ok {
		return "internal_error"
	}
	switch cErr.Code {
	case clierr.CodeUsage:
		return "usage_error"
	case clierr.CodeAuth:
		return "auth_error"
	case clierr.CodeRateLimited:
		return "rate_limited"
	case clierr.CodeUnavailable:
		return "unavailable"
	case clierr.CodeUnsupported:
		return "unsupported"
	case clierr.CodeBlocked:
		return "command_blocked"
	case clierr.CodeSigner:
		return "signer_error"
	case clierr.CodeMalformedCommand:
		return "malformed_command"
	case clierr.CodeUnknownOperation:
		return "unknown_operation"
	case clierr.CodeUnknownToken:
		return "unknown_token"
	case clierr.CodeInvalidAddress:
		return "invalid_address"
	case clierr.CodeInsufficientBalance:
		return "insufficient_balance"
	case clierr.CodeApprovalFailed:
		return "approval_failed"
	case clierr.CodeConfirmationTimeout:
		return "confirmation_timeout"
	case clierr.CodeExecutionFailed:
		return "execution_failed"
	case clierr.CodeUnroutableOperation:
		return "unroutable_operation"
	default:
		return "internal_error"
	}
}

func newRequestID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func trimRootPath(path string) string {
	parts := strings.Fields(path)
	if len(parts) <= 1 {
		return path
	}
	return strings.Join(parts[1:], " ")
}

func normalizeRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := clierr.As(err); ok {
		return err
	}
	if isLikelyUsageError(err) {
		return clierr.Wrap(clierr.CodeUsage, "invalid command input", err)
	}
	return clierr.Wrap(clierr.CodeInternal, "execute command", err)
}

func isLikelyUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"required flag(s)",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"invalid args",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
