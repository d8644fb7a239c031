package playtomic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rafa-garcia/go-playtomic-api/client"
	"github.com/rafa-garcia/go-playtomic-api/models"
)

const timeLayout = "2006-01-02T15:04:05"

// APIClient is a Playtomic API client that implements the PlaytomicClient interface.
type APIClient struct {
	httpClient *http.Client
	apiClient  *client.Client
	BaseURL    string
}

// NewClient creates a new Playtomic client.
func NewClient() PlaytomicClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiClient: client.NewClient(
			client.WithTimeout(10*time.Second),
			client.WithRetries(3),
		),
		BaseURL: "https://api.playtomic.io",
	}
}

var _ PlaytomicClient = (*APIClient)(nil)

// GetMatches pages through the search endpoint until a short page is returned.
func (c *APIClient) GetMatches(ctx context.Context, params *SearchMatchesParams) ([]MatchSummary, error) {
	const pageSize = 300
	var (
		allMatches []MatchSummary
		page       = 0
	)

	for {
		externalParams := &models.SearchMatchesParams{
			SportID:       params.SportID,
			HasPlayers:    params.HasPlayers,
			Sort:          params.Sort,
			TenantIDs:     params.TenantIDs,
			FromStartDate: params.FromStartDate,
			Size:          pageSize,
			Page:          page,
		}

		log.Debug("Fetching matches from Playtomic API", "params", externalParams)
		matches, err := c.apiClient.GetMatches(ctx, externalParams)
		if err != nil {
			return nil, fmt.Errorf("error fetching matches from playtomic api: %w", err)
		}

		for _, m := range matches {
			allMatches = append(allMatches, MatchSummary{
				MatchID: m.MatchID,
				OwnerID: m.OwnerID,
			})
		}

		if len(matches) < pageSize {
			break
		}
		page++
	}
	log.Info("Fetched matches from Playtomic", "count", len(allMatches), "pages", page+1)
	return allMatches, nil
}

// GetSpecificMatch fetches a specific match by its ID.
func (c *APIClient) GetSpecificMatch(ctx context.Context, matchID string) (PadelMatch, error) {
	url := fmt.Sprintf("%s/v1/matches/%s", c.BaseURL, matchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PadelMatch{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PadelLadder/1.0")

	log.Debug("Requesting specific match from Playtomic API", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PadelMatch{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from Playtomic API", "status", resp.StatusCode, "body", string(body))
		return PadelMatch{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var matchResponse playtomicMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&matchResponse); err != nil {
		return PadelMatch{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return toPadelMatch(matchID, matchResponse)
}

func toPadelMatch(matchID string, r playtomicMatchResponse) (PadelMatch, error) {
	startTime, err := time.Parse(timeLayout, r.StartDate)
	if err != nil {
		return PadelMatch{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	endTime, err := time.Parse(timeLayout, r.EndDate)
	if err != nil {
		return PadelMatch{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	teams := make([]Team, 0, len(r.Teams))
	for _, responseTeam := range r.Teams {
		t := Team{ID: responseTeam.TeamID}
		if responseTeam.TeamResult != nil {
			t.TeamResult = *responseTeam.TeamResult
		}
		for _, p := range responseTeam.Players {
			t.Players = append(t.Players, Player{UserID: p.UserID, Name: p.Name})
		}
		teams = append(teams, t)
	}

	results := make([]SetResult, 0, len(r.Results))
	for _, responseResult := range r.Results {
		set := SetResult{Name: responseResult.Name, Scores: make(map[string]int)}
		for _, score := range responseResult.Scores {
			set.Scores[score.TeamID] = score.Score
		}
		results = append(results, set)
	}

	gameStatus := GameStatus(r.GameStatus)
	switch gameStatus {
	case GameStatusPending, GameStatusPlayed, GameStatusCanceled, GameStatusWaitingFor, GameStatusExpired, GameStatusInProgress:
	default:
		log.Warn("Unknown game status received from Playtomic API", "status", r.GameStatus, "matchID", matchID)
		gameStatus = GameStatusUnknown
	}

	return PadelMatch{
		MatchID:       matchID,
		Start:         startTime.Unix(),
		End:           endTime.Unix(),
		GameStatus:    gameStatus,
		ResultsStatus: ResultsStatus(r.ResultsStatus),
		Teams:         teams,
		Results:       results,
		ResourceName:  r.ResourceName,
		TenantID:      r.Tenant.ID,
	}, nil
}
