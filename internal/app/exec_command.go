package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ggonzalez94/intent-cli/internal/execution"
	"github.com/ggonzalez94/intent-cli/internal/model"
)

func (s *runtimeState) newExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command string>",
		Short: "Parse and execute a DSL command on-chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseUserCommand(strings.Join(args, " "))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			gw, err := s.openGateway(ctx)
			if err != nil {
				return err
			}
			store, err := s.openStore()
			if err != nil {
				return err
			}

			executor := execution.NewExecutor(gw, store, s.executorOptions())
			record, execErr := executor.Execute(ctx, in)
			if execErr != nil {
				// The record already went to the store; the envelope carries
				// only the classified error.
				return execErr
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), executionSummary(record))
		},
	}
	return cmd
}

func executionSummary(record execution.Record) model.ExecutionSummary {
	return model.ExecutionSummary{
		ExecutionID:     record.ExecutionID,
		Command:         record.Command,
		Operation:       record.Operation,
		Phase:           string(record.Phase),
		FailedPhase:     string(record.FailedPhase),
		Token:           record.Token,
		AmountBaseUnits: record.AmountBase,
		MinAmountOut:    record.MinAmountOut,
		ApprovalTxHash:  record.ApprovalTxHash,
		TxHash:          record.TxHash,
		Succeeded:       record.Succeeded,
		Error:           record.Error,
		UpdatedAt:       record.UpdatedAt,
	}
}
