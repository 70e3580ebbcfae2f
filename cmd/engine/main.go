package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agent-trading-engine/config"
	"agent-trading-engine/internal/circuit"
	"agent-trading-engine/internal/engine"
	"agent-trading-engine/internal/logging"
	"agent-trading-engine/internal/marketdata"
	"agent-trading-engine/internal/paper"
	"agent-trading-engine/internal/portfolio"
	"agent-trading-engine/internal/scheduler"
	"agent-trading-engine/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "engine",
		Short: "Multi-signal trading decision engine",
		Long: `Runs trait-weighted confluence analysis over market snapshots and
emits BUY/SELL/HOLD decisions with volatility-scaled position sizing.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newEvaluateCmd(&configPath))
	return rootCmd
}

// newRunCmd starts the continuous paper-trading loop for the configured
// agent fleet.
func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the evaluation loop for all configured agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if len(cfg.Agents) == 0 {
				return fmt.Errorf("no agents configured")
			}

			log := logging.New(cfg.Logging)

			breaker := circuit.NewBreaker(cfg.Breaker)
			provider := marketdata.NewClient(cfg.MarketData, breaker, log)
			sessions := session.NewStore(cfg.Session.TradeCap, cfg.Session.Cooldown)
			guard := portfolio.NewGuard(cfg.Guard)
			eng := engine.New(log, sessions, guard)
			store := paper.NewStore(cfg.Paper.StartingCash)
			executor := paper.NewExecutor(store, log)

			sched := scheduler.New(eng, provider, store, executor, cfg.Scheduler.Cadence, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Int("agents", len(cfg.Agents)).Msg("starting evaluation loop")
			return sched.Run(ctx, cfg.Agents)
		},
	}
}

// newEvaluateCmd runs a single decision pass over a JSON scenario file and
// prints the decision.
func newEvaluateCmd(configPath *string) *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one JSON scenario and print the decision",
		Long: `Reads agent traits, a market snapshot, and a portfolio snapshot from a
JSON file, runs one decision pass, and prints the decision as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(scenarioPath)
			if err != nil {
				return fmt.Errorf("reading scenario: %w", err)
			}
			var in engine.Input
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parsing scenario: %w", err)
			}

			log := logging.New(cfg.Logging)

			sessions := session.NewStore(cfg.Session.TradeCap, cfg.Session.Cooldown)
			guard := portfolio.NewGuard(cfg.Guard)
			eng := engine.New(log, sessions, guard)

			decision, err := eng.Evaluate(cmd.Context(), in)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(decision, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file path (JSON)")
	cmd.MarkFlagRequired("scenario")
	return cmd
}
