// Package main benchmarks the two margin-of-error policies side by side
// over representative proposal scenarios.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/models"
)

type scenario struct {
	name string
	ctx  models.Context
}

func main() {
	var (
		zScore     = flag.Float64("z", 1.96, "Z score for the interval width")
		decayScale = flag.Float64("decay-scale", 400, "Sample size at which heuristic and statistical margins blend equally")
	)
	flag.Parse()

	cfg := forecast.Config{
		ZScore:     *zScore,
		DecayScale: *decayScale,
	}.Normalize()
	legacyCfg := cfg
	legacyCfg.MarginPolicy = forecast.MarginPolicyLegacy
	updatedCfg := cfg
	updatedCfg.MarginPolicy = forecast.MarginPolicyUpdated

	legacy := forecast.NewMarginStrategy(legacyCfg)
	updated := forecast.NewMarginStrategy(updatedCfg)

	// Neutral baselines stand in for the historical aggregates so the table
	// isolates what the scenario contexts contribute.
	stats := models.HistoricalStats{ApprovalRate: 0.52, Turnout: 0.30}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Scenario\tProb\tN_eff\tLegacy\tUpdated\tDelta\tLegacyConf\tUpdatedConf")

	var legacySum, updatedSum float64
	scenarios := buildScenarios()
	for _, sc := range scenarios {
		fv := forecast.Extract(sc.ctx, stats)
		p := forecast.HeuristicProbability(fv)
		nEff := forecast.EffectiveSampleSize(fv)

		lm := legacy.Margin(fv, p, nEff)
		um := updated.Margin(fv, p, nEff)
		legacySum += lm
		updatedSum += um

		fmt.Fprintf(w, "%s\t%.3f\t%.0f\t%.4f\t%.4f\t%+.4f\t%.4f\t%.4f\n",
			sc.name, p, nEff, lm, um, um-lm,
			forecast.Confidence(lm, fv, cfg), forecast.Confidence(um, fv, cfg))
	}
	w.Flush()

	n := float64(len(scenarios))
	fmt.Printf("\nMean margin: legacy %.4f, updated %.4f (%+.4f)\n",
		legacySum/n, updatedSum/n, (updatedSum-legacySum)/n)
}

// buildScenarios spans the coverage and engagement ranges seen in live
// governance data: a moderately discussed chat proposal, a heavily engaged
// forum one, a negative low-engagement onchain one, and a consolidated
// context with broad source coverage.
func buildScenarios() []scenario {
	return []scenario{
		{
			name: "chat_moderate_trending",
			ctx: models.Context{
				"sentiment": map[string]interface{}{
					"source": "chat", "score": 0.25, "weight": 0.7, "message_size_kb": 50.0,
				},
				"source_sentiments":     map[string]interface{}{"chat": 0.25, "forum": 0.10},
				"trending_score":        0.15,
				"comment_turnout_trend": 0.10,
				"trending_topics":       []interface{}{"governance", "staking", "runtime"},
				"kb_snippets":           []interface{}{"a", "b", "c", "d"},
			},
		},
		{
			name: "forum_strong_high_engagement",
			ctx: models.Context{
				"sentiment": map[string]interface{}{
					"source": "forum", "score": 0.45, "weight": 0.9, "message_size_kb": 120.0,
				},
				"source_sentiments":     map[string]interface{}{"forum": 0.50, "chat": 0.35, "news": 0.20},
				"trending":              map[string]interface{}{"score": 0.20},
				"comment_turnout_trend": 0.15,
				"trending_topics":       []interface{}{"treasury", "governance", "allocations", "contracts"},
				"kb_snippets":           []interface{}{"a", "b", "c", "d", "e", "f", "g"},
			},
		},
		{
			name: "onchain_negative_low_engagement",
			ctx: models.Context{
				"sentiment": map[string]interface{}{
					"source": "onchain", "score": -0.30, "weight": 0.3, "message_size_kb": 30.0,
				},
				"source_sentiments":     map[string]interface{}{"onchain": -0.30, "chat": -0.10},
				"trend_score":           -0.05,
				"comment_turnout_trend": -0.08,
				"trending_topics":       []interface{}{"fees"},
				"kb_snippets":           []interface{}{"a"},
			},
		},
		{
			name: "consolidated_broad_coverage",
			ctx: models.Context{
				"sentiment": map[string]interface{}{
					"source": "consolidated", "score": 0.10, "weight": 0.8, "message_size_kb": 300.0,
				},
				"source_sentiments": map[string]interface{}{
					"chat": 0.05, "forum": 0.15, "news": -0.05, "onchain": 0.00,
				},
				"trending_score":        0.10,
				"comment_turnout_trend": 0.05,
				"trending_topics":       []interface{}{"gov", "kpi", "parachains", "auctions", "staking", "coretime"},
				"kb_snippets": []interface{}{
					"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14",
				},
			},
		},
	}
}
