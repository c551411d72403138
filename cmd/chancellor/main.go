// Command chancellor runs the political-fiscal simulation: a five-year term
// at the Treasury, one monthly turn at a time.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/redbox-games/chancellor/internal/api"
	"github.com/redbox-games/chancellor/internal/config"
	"github.com/redbox-games/chancellor/internal/content"
	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/engine"
	"github.com/redbox-games/chancellor/internal/entropy"
	"github.com/redbox-games/chancellor/internal/executive"
	"github.com/redbox-games/chancellor/internal/fiscal"
	"github.com/redbox-games/chancellor/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "chancellor",
		Short: "Turn-based political-fiscal simulation",
	}
	root.PersistentFlags().String("config", "chancellor.yaml", "path to scenario config")
	root.PersistentFlags().Int64("seed", 0, "game seed (0 = from config, or random)")

	root.AddCommand(simulateCmd(), serveCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// loadSetup builds a fresh game and opens the database per the config file.
func loadSetup(cmd *cobra.Command) (*config.Config, *engine.Game, *persistence.DB, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	regime, ok := fiscal.ParseRegimeID(cfg.Game.Regime)
	if !ok {
		return nil, nil, nil, fmt.Errorf("unknown regime %q", cfg.Game.Regime)
	}

	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}

	econ := economy.Indicators{
		GDP:              cfg.Scenario.GDP,
		GrowthPct:        cfg.Scenario.Growth,
		InflationPct:     cfg.Scenario.Inflation,
		UnemploymentPct:  cfg.Scenario.Unemployment,
		GiltYieldPct:     cfg.Scenario.GiltYield,
		NationalApproval: cfg.Scenario.Approval,
		ServiceQuality:   cfg.Scenario.ServiceQuality,
	}
	for i := range econ.RegionalApproval {
		econ.RegionalApproval[i] = cfg.Scenario.Approval
	}

	pos := fiscal.Position{
		Revenue:           cfg.Scenario.Revenue,
		CurrentSpending:   cfg.Scenario.CurrentSpending,
		CapitalSpending:   cfg.Scenario.CapitalSpending,
		DebtInterest:      cfg.Scenario.DebtInterest,
		DebtRatioPct:      cfg.Scenario.DebtRatio,
		DebtRatioPrevPct:  cfg.Scenario.DebtRatioPrev,
		TaxTakePct:        cfg.Scenario.TaxTake,
		LockedTaxBaseline: cfg.Scenario.LockedTaxBase,
		SpendingBaseline:  cfg.Scenario.SpendingBaseline,
	}

	var table *content.Table
	if cfg.Content.TablePath != "" {
		table, err = content.Load(cfg.Content.TablePath)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755)
	db, err := persistence.Open(cfg.Database.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}

	state := engine.NewState(seed, regime, econ, pos)
	game := engine.NewGame(state, table)
	slog.Info("game created", "id", state.ID, "seed", seed, "regime", regime)
	return cfg, game, db, nil
}

func simulateCmd() *cobra.Command {
	var turns int
	var autoResolve string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scripted game for N turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, game, db, err := loadSetup(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			for i := 0; i < turns; i++ {
				res, err := game.AdvanceTurn(engine.PolicyDelta{})
				if err != nil {
					return err
				}
				printTurn(game, res)

				if err := db.SaveEvents(game.State.ID, res.Events); err != nil {
					return err
				}

				if res.Intervention != nil {
					choice := executive.Choice(autoResolve)
					slog.Info("auto-resolving intervention", "reason", res.Intervention.Reason, "choice", choice)
					if err := game.ResolveIntervention(choice); err != nil {
						return err
					}
				}
				if res.Terminal {
					fmt.Println("\nThe run is over: removed from office.")
					break
				}
			}

			return db.SaveGame(game.State)
		},
	}

	cmd.Flags().IntVar(&turns, "turns", engine.TermTurns, "number of turns to simulate")
	cmd.Flags().StringVar(&autoResolve, "resolve", "comply", "auto-resolution for interventions (comply|defy)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a game over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, game, db, err := loadSetup(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SaveGame(game.State); err != nil {
				return err
			}

			srv := &api.Server{
				Game:     game,
				DB:       db,
				Port:     cfg.API.Port,
				AdminKey: cfg.API.AdminKey,
			}
			return srv.Start()
		},
	}
}

func inspectCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a saved game as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			db, err := persistence.Open(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer db.Close()

			if gameID == "" {
				gameID, err = db.LatestGameID()
				if err != nil {
					return err
				}
			}
			state, err := db.LoadGame(gameID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}

	cmd.Flags().StringVar(&gameID, "id", "", "game id (default: latest save)")
	return cmd
}

// printTurn writes a human summary of one turn to stdout.
func printTurn(game *engine.Game, res *engine.TurnResult) {
	s := game.State
	fmt.Printf("\n── Turn %d ─ headroom £%sm ─ mood %.1f ─ trust %.1f ─ risk %s\n",
		res.Turn,
		humanize.CommafWithDigits(res.Verdict.Headroom*1000, 0),
		res.Sentiment.OverallMood,
		s.Rel.Trust,
		res.Sentiment.Risk,
	)
	if res.Headline != nil {
		fmt.Printf("   %s — %s\n", res.Headline.Headline, res.Headline.Subheading)
	}
	if res.Quote != nil {
		fmt.Printf("   %q — %s\n", res.Quote.Quote, res.Quote.Speaker)
	}
	if res.Message != nil {
		fmt.Printf("   [No 10, %s] %s\n", res.Message.Kind, res.Message.Body)
	}
	for _, e := range res.Events {
		fmt.Printf("   * (%s) %s\n", e.Category, e.Description)
	}
}
