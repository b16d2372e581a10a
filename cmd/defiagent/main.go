package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/responder"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
	networkdefinition "github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/network/definition"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/restapi"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/logger"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rootFlags struct {
	configPath string
	jsonOutput bool
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "defiagent",
		Short:        "DeFi portfolio agent: prices, balances and portfolio analysis",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config file (default $CONFIG_PATH or "+configloader.DefaultPath+")")
	cmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Print structured JSON instead of chat text")

	cmd.AddCommand(
		newServeCommand(flags),
		newQueryCommand(flags),
		newPriceCommand(flags),
		newPortfolioCommand(flags),
		newNetworksCommand(flags),
	)
	return cmd
}

func (f *rootFlags) resolvedConfigPath() string {
	if f.configPath != "" {
		return f.configPath
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return configloader.DefaultPath
}

// withApp builds the application for one command and always releases it.
func withApp(flags *rootFlags, run func(ctx context.Context, a *application) error) error {
	cfg, err := loadConfig(flags.resolvedConfigPath())
	if err != nil {
		return err
	}
	a, err := newApplication(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, a)
}

func printResult(cmd *cobra.Command, flags *rootFlags, text string, data any) error {
	if !flags.jsonOutput {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, a *application) error {
				return serve(ctx, a)
			})
		},
	}
}

func serve(ctx context.Context, a *application) error {
	status := a.networks.Status(a.chainData.Configured(), a.cfg.MarketData.Provider)
	for _, w := range status.Warnings {
		logger.Warn("Network warning", "network", status.Profile.Key, "warning", w)
	}

	router := restapi.SetupRouter(a.handler(), a.cfg.Server)
	srv := &http.Server{
		Addr:              ":" + strings.TrimPrefix(a.cfg.Server.Port, ":"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Запуск HTTP сервера", "address", srv.Addr, "network", status.Profile.Key)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exiting")
	return nil
}

func newQueryCommand(flags *rootFlags) *cobra.Command {
	var wallet string
	cmd := &cobra.Command{
		Use:   "query <message>",
		Short: "Answer a natural-language question, e.g. \"what's the solana price?\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *application) error {
				resp := a.query.Handle(ctx, entity.QueryRequest{Text: strings.Join(args, " "), WalletAddress: wallet})
				return printResult(cmd, flags, resp.Text, resp)
			})
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "Wallet address (default $WALLET_ADDRESS)")
	return cmd
}

func newPriceCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "price <token>",
		Short: "Print the USD price of a token given as ticker or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *application) error {
				res := a.prices.GetPriceBySymbol(ctx, args[0])
				return printResult(cmd, flags, responder.Price(res), res)
			})
		},
	}
}

func newPortfolioCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio [address]",
		Short: "Print the portfolio snapshot of a wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *application) error {
				address := a.portfolio.DefaultAddress()
				if len(args) == 1 {
					address = args[0]
				}
				res := a.portfolio.GetPortfolioData(ctx, address)
				return printResult(cmd, flags, responder.Portfolio(res), res)
			})
		},
	}
}

func newNetworksCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "Show the active network and the known networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(_ context.Context, a *application) error {
				status := a.networks.Status(a.chainData.Configured(), a.cfg.MarketData.Provider)
				if flags.jsonOutput {
					return printResult(cmd, flags, "", status)
				}
				var b strings.Builder
				b.WriteString(responder.Network(status))
				b.WriteString("\n\nKnown networks:")
				for _, p := range a.networks.All() {
					fmt.Fprintf(&b, "\n  %-18s %-28s chain %d", p.Key, p.Name, p.ChainID)
				}
				return printResult(cmd, flags, b.String(), nil)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "switch <devnet|testnet|mainnet>",
		Short:     "Print the steps to switch networks",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(entity.NetworkDevnet), string(entity.NetworkTestnet), string(entity.NetworkMainnet)},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := entity.NetworkType(strings.ToLower(args[0]))
			switch target {
			case entity.NetworkDevnet, entity.NetworkTestnet, entity.NetworkMainnet:
			default:
				return fmt.Errorf("unknown network type %q", args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(networkdefinition.SwitchInstructions(target), "\n"))
			return err
		},
	})
	return cmd
}
