package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rerank/internal/domain"
)

type rankedJSON struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
	Index int     `json:"index"`
}

func newRankCmd(gf *globalFlags) *cobra.Command {
	var (
		query      string
		passages   []string
		showScores bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "rank [FILE|-]...",
		Short: "Rank passages against a query and print them ends-first",
		Long: `Score every passage against the query and print the passages so that the
most relevant one comes first, the second most relevant last, the third
second, and so on toward the middle.

Passages come from repeated --passage flags and from files, which are split
by the configured chunker (one passage per line by default). "-" reads
stdin; with no passages and no files, stdin is read.

Examples:
  rerank rank -q "benefits of renewable energy" -p "Solar is clean." -p "Chocolates are sweet."
  rerank rank -q "how does blockchain work" notes.txt
  cat chunks.txt | rerank rank -q "balanced diet" --scores`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("a non-empty --query is required")
			}
			a, err := newApp(gf)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			files := args
			if len(passages) == 0 && len(files) == 0 {
				files = []string{"-"}
			}
			input, err := collectPassages(passages, files, cmd.InOrStdin(), a.chunker)
			if err != nil {
				return err
			}
			a.log.Info("ranking", zap.Int("passages", len(input)))

			ranked, err := a.service.RankScored(cmd.Context(), query, input)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ranked)
			}
			writeText(cmd.OutOrStdout(), ranked, showScores)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Query to rank passages against (required)")
	cmd.Flags().StringArrayVarP(&passages, "passage", "p", nil, "Passage text (repeatable)")
	cmd.Flags().BoolVar(&showScores, "scores", false, "Show relevance rank and score next to each passage")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func writeText(w io.Writer, ranked []domain.ScoredPassage, showScores bool) {
	for _, r := range ranked {
		if showScores {
			fmt.Fprintf(w, "[rank %d, score %.4f] %s\n", r.Rank, r.Score, r.Text)
		} else {
			fmt.Fprintln(w, r.Text)
		}
	}
}

func writeJSON(w io.Writer, ranked []domain.ScoredPassage) error {
	out := make([]rankedJSON, len(ranked))
	for i, r := range ranked {
		out[i] = rankedJSON{Text: r.Text, Score: r.Score, Rank: r.Rank, Index: r.Index}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
