package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	limit    int
	days     int
	matchID  string
	score    string
	team2Won bool
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(divisionsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(linkSlackCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(importCmd)

	leaderboardCmd.Flags().IntVar(&limit, "limit", 20, "Number of players to list")
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Number of rating changes to list")
	matchesCmd.Flags().IntVar(&limit, "limit", 20, "Number of rated matches to list")
	importCmd.Flags().IntVar(&days, "days", 0, "Import matches played since this many days ago")

	rateCmd.Flags().StringVar(&matchID, "match-id", "", "Match ID (generated by the server when empty)")
	rateCmd.Flags().StringVar(&score, "score", "", `Set scores from team 1's side, e.g. "6-4, 6-3"`)
	rateCmd.Flags().BoolVar(&team2Won, "team2-won", false, "Team 2 won the match")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, nil)
	},
}

var divisionsCmd = &cobra.Command{
	Use:   "divisions",
	Short: "List the division bands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/divisions", nil, nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show players ordered by rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/leaderboard", url.Values{"limit": {strconv.Itoa(limit)}}, nil)
	},
}

var playerCmd = &cobra.Command{
	Use:   "player <id>",
	Short: "Show a player's rating and division",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0]), nil, nil)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a player's recent rating changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0])+"/history", url.Values{"limit": {strconv.Itoa(limit)}}, nil)
	},
}

var linkSlackCmd = &cobra.Command{
	Use:   "link-slack <player-id> <slack-user-id>",
	Short: "Mention a Slack member in a player's division notifications",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := json.Marshal(map[string]string{"slack_user_id": args[1]})
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/players/"+url.PathEscape(args[0])+"/slack", nil, payload)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the most recently rated matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches", url.Values{"limit": {strconv.Itoa(limit)}}, nil)
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <team1-p1> <team1-p2> <team2-p1> <team2-p2>",
	Short: "Submit a finished match for rating",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"match_id":  matchID,
			"team1":     []map[string]string{{"id": args[0]}, {"id": args[1]}},
			"team2":     []map[string]string{{"id": args[2]}, {"id": args[3]}},
			"score":     score,
			"team1_won": !team2Won,
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/matches", nil, payload)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Rate played Playtomic matches of the club",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/import", url.Values{"days": {strconv.Itoa(days)}}, nil)
	},
}

func performRequest(method, endpoint string, query url.Values, body []byte) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	if verbose {
		query.Set("verbose", "true")
	}
	target := strings.TrimRight(host, "/") + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s %s\n", method, target)

	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))
	return nil
}
