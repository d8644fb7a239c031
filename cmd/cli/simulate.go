package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mauv0809/padel-ladder/internal/ranking"
	"github.com/spf13/cobra"
)

var (
	simScore    string
	simTeam2Won bool
	simStrict   bool
	simLevelK   bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simScore, "score", "", `Set scores from team 1's side, e.g. "6-4, 6-3"`)
	simulateCmd.Flags().BoolVar(&simTeam2Won, "team2-won", false, "Team 2 won the match")
	simulateCmd.Flags().BoolVar(&simStrict, "strict", false, "Reject incomplete or impossible set scores")
	simulateCmd.Flags().BoolVar(&simLevelK, "level-k", false, "Stage K by division level instead of matches played")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <rating[:matches]> x4",
	Short: "Compute rating changes offline without a server",
	Long: `Runs the rating engine locally. Each player is given as a rating,
optionally followed by the number of matches played, e.g.

  ladder-cli simulate 1200:60 1200:50 1200:80 1200:55 --score "6-0, 6-0"`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := make([]ranking.PlayerRatingInput, 0, 4)
		for i, arg := range args {
			in, err := parsePlayerArg(fmt.Sprintf("p%d", i+1), arg)
			if err != nil {
				return err
			}
			inputs = append(inputs, in)
		}

		var opts []ranking.Option
		if simStrict {
			opts = append(opts, ranking.WithStrictScores())
		}
		if simLevelK {
			opts = append(opts, ranking.WithPolicy(ranking.LevelPolicy()))
		}
		res, err := ranking.NewEngine(nil, opts...).Rate(inputs[:2], inputs[2:], simScore, !simTeam2Won)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func parsePlayerArg(id, arg string) (ranking.PlayerRatingInput, error) {
	ratingStr, matchesStr, hasMatches := strings.Cut(arg, ":")
	rating, err := strconv.ParseFloat(ratingStr, 64)
	if err != nil {
		return ranking.PlayerRatingInput{}, fmt.Errorf("invalid rating %q: %w", arg, err)
	}
	in := ranking.PlayerRatingInput{ID: id, Rating: rating}
	if hasMatches {
		in.ExperienceCount, err = strconv.Atoi(matchesStr)
		if err != nil {
			return ranking.PlayerRatingInput{}, fmt.Errorf("invalid match count %q: %w", arg, err)
		}
	}
	return in, nil
}
