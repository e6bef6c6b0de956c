package app

import (
	"github.com/spf13/cobra"

	"github.com/ggonzalez94/intent-cli/internal/model"
)

func (s *runtimeState) newHistoryCommand() *cobra.Command {
	var phase string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded executions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := s.openStore()
			if err != nil {
				return err
			}
			records, err := store.List(phase, limit)
			if err != nil {
				return err
			}
			summaries := make([]model.ExecutionSummary, 0, len(records))
			for _, record := range records {
				summaries = append(summaries, executionSummary(record))
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), summaries)
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "Filter by terminal phase (done, failed, ...)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum executions to return")
	return cmd
}
