package app

import (
	"strings"

	"github.com/spf13/cobra"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/model"
)

// status resolves the ambiguity a confirmation timeout leaves behind: given
// the recorded tx hash, it reports whether the transaction landed and how.
func (s *runtimeState) newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <tx-hash>",
		Short: "Look up the on-chain outcome of a submitted transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txHash := strings.TrimSpace(args[0])
			if !strings.HasPrefix(txHash, "0x") || len(txHash) != 66 {
				return clierr.New(clierr.CodeUsage, "expected a 0x-prefixed 32-byte transaction hash")
			}

			ctx := cmd.Context()
			gw, err := s.openGateway(ctx)
			if err != nil {
				return err
			}
			confirmation, found, err := gw.TransactionStatus(ctx, txHash)
			if err != nil {
				return err
			}
			status := model.TxStatus{TxHash: txHash, Found: found}
			if found {
				status.Succeeded = confirmation.Succeeded
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), status)
		},
	}
	return cmd
}
