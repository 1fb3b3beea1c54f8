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

var matchName string

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(topThreeCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(addPlayersCmd)
	rootCmd.AddCommand(addMatchCmd)
	rootCmd.AddCommand(deleteMatchCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(metricsCmd)

	addMatchCmd.Flags().StringVar(&matchName, "name", "", "Optional match name (defaults to \"Match N\")")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all players with their aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the leaderboard stats projection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/stats")
	},
}

var topThreeCmd = &cobra.Command{
	Use:   "top-three",
	Short: "Show the podium",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/top-three")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player <name>",
	Short: "Create a single player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/players", map[string]any{"name": args[0]})
	},
}

var addPlayersCmd = &cobra.Command{
	Use:   "add-players <name> [name...]",
	Short: "Create several players at once",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/players/bulk", map[string]any{"players": args})
	},
}

var addMatchCmd = &cobra.Command{
	Use:   "add-match <playerId=earnings> [playerId=earnings...]",
	Short: "Record a match from (player, earnings) pairs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		winners := make([]map[string]any, 0, len(args))
		for _, arg := range args {
			playerID, earningsStr, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid winner %q, expected playerId=earnings", arg)
			}
			earnings, err := strconv.ParseFloat(earningsStr, 64)
			if err != nil {
				return fmt.Errorf("invalid earnings in %q: %w", arg, err)
			}
			winners = append(winners, map[string]any{"playerId": playerID, "earnings": earnings})
		}
		body := map[string]any{"winners": winners}
		if matchName != "" {
			body["matchName"] = matchName
		}
		return performJSONRequest(http.MethodPost, "/matches", body)
	},
}

var deleteMatchCmd = &cobra.Command{
	Use:   "delete-match <name>",
	Short: "Delete a match by name and rebuild affected aggregates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodDelete, "/matches?name="+url.QueryEscape(args[0]), nil)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every match and zero every player's aggregate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/reset", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performJSONRequest(method, endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if passkey != "" {
		req.Header.Set("X-Admin-Passkey", passkey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
