package app

import (
	"github.com/spf13/cobra"

	"github.com/ggonzalez94/intent-cli/internal/model"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

func (s *runtimeState) newTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List known token symbols and addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := registry.Tokens()
			infos := make([]model.TokenInfo, 0, len(tokens))
			for _, token := range tokens {
				infos = append(infos, model.TokenInfo{
					Symbol:   token.Symbol,
					Address:  token.Address,
					Decimals: token.Decimals,
					Native:   token.Native,
				})
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), infos)
		},
	}
	return cmd
}
