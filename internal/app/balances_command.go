package app

import (
	"github.com/spf13/cobra"

	"github.com/ggonzalez94/intent-cli/internal/id"
	"github.com/ggonzalez94/intent-cli/internal/model"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

func (s *runtimeState) newBalancesCommand() *cobra.Command {
	var tokenArg string
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show the connected account's token balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gw, err := s.openGateway(ctx)
			if err != nil {
				return err
			}

			tokens := registry.Tokens()
			if tokenArg != "" {
				token, err := registry.Resolve(tokenArg)
				if err != nil {
					return err
				}
				tokens = []registry.Token{token}
			}

			balances := make([]model.BalanceInfo, 0, len(tokens))
			for _, token := range tokens {
				balance, err := gw.BalanceOf(ctx, token)
				if err != nil {
					return err
				}
				if tokenArg == "" && balance.Sign() == 0 {
					continue
				}
				balances = append(balances, model.BalanceInfo{
					Symbol:          token.Symbol,
					AmountBaseUnits: balance.String(),
					AmountDecimal:   id.FromBaseUnits(balance.String(), token.Decimals),
					Decimals:        token.Decimals,
				})
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), balances)
		},
	}
	cmd.Flags().StringVar(&tokenArg, "token", "", "Limit to one token symbol or address")
	return cmd
}
