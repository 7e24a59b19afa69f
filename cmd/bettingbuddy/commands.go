package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/catalog"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/recommend"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/value"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh active bet and parlay odds once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg, appLog, true)
		if err != nil {
			return err
		}
		defer a.close()

		tick, err := a.refreshScheduler(cfg).UpdateNow(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), tick)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import sports, teams and pending bets from the odds provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg, appLog, true)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := catalog.NewSyncer(a.store, a.provider, appLog, cfg.Catalog.Sports...).Sync(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var (
	recommendProfile string
	recommendSportID int64
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print recommendations built from the active bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg, appLog, false)
		if err != nil {
			return err
		}
		defer a.close()

		bets, err := a.store.GetActiveBets(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load active bets: %w", err)
		}
		legs := recommend.LegsFromBets(bets)
		engine := newEngine(cfg.Recommend)

		if recommendProfile == "" {
			recs, err := engine.BySport(legs, recommendSportID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), recs)
		}

		if recommendSportID != 0 {
			filtered := legs[:0]
			for _, leg := range legs {
				if leg.SportID == recommendSportID {
					filtered = append(filtered, leg)
				}
			}
			legs = filtered
		}
		recs, err := engine.Parlays(legs, recommendProfile)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), recs)
	},
}

var (
	valueOdds        string
	valueProbability float64
	valueBankroll    float64
	valueBetsFile    string
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Analyze a price or build a betting plan",
}

var valueAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare American odds against a true probability",
	RunE: func(cmd *cobra.Command, args []string) error {
		analysis, err := newStrategy(cfg.Value).Analyzer().Analyze(valueOdds, valueProbability)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), analysis)
	},
}

var valuePlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Stake value bets read as JSON from --bets (or stdin with -)",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := readCandidates(cmd, valueBetsFile)
		if err != nil {
			return err
		}
		plan, err := newStrategy(cfg.Value).GenerateBettingPlan(valueBankroll, candidates)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), plan)
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendProfile, "profile", "p", "", "Profile to evaluate (default: all)")
	recommendCmd.Flags().Int64Var(&recommendSportID, "sport-id", 0, "Only use bets from this sport")

	valueAnalyzeCmd.Flags().StringVar(&valueOdds, "odds", "", "American odds, e.g. +150")
	valueAnalyzeCmd.Flags().Float64Var(&valueProbability, "probability", 0, "Estimated true probability in [0, 1)")
	_ = valueAnalyzeCmd.MarkFlagRequired("odds")

	valuePlanCmd.Flags().Float64Var(&valueBankroll, "bankroll", 0, "Bankroll to stake from")
	valuePlanCmd.Flags().StringVar(&valueBetsFile, "bets", "-", "JSON file of candidate bets")
	_ = valuePlanCmd.MarkFlagRequired("bankroll")

	valueCmd.AddCommand(valueAnalyzeCmd)
	valueCmd.AddCommand(valuePlanCmd)
}

func readCandidates(cmd *cobra.Command, path string) ([]value.Candidate, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var candidates []value.Candidate
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode bets: %w", err)
	}
	return candidates, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
