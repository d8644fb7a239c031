package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/playtomic"
)

const playtomicTimeLayout = "2006-01-02T15:04:05"

// ImportPlaytomicMatches rates every played, confirmed doubles match of the
// configured tenant that started after since and has not been rated yet.
// Matches are rated in the order the API returns them, oldest first.
func (p *Processor) ImportPlaytomicMatches(ctx context.Context, since time.Time, dryRun bool) (*ImportReport, error) {
	if p.cfg.Playtomic == nil || p.cfg.TenantID == "" {
		return nil, ErrPlaytomicDisabled
	}
	p.metrics.IncImportRuns()

	summaries, err := p.cfg.Playtomic.GetMatches(ctx, &playtomic.SearchMatchesParams{
		SportID:       "PADEL",
		HasPlayers:    true,
		Sort:          "start_date,ASC",
		TenantIDs:     []string{p.cfg.TenantID},
		FromStartDate: since.UTC().Format(playtomicTimeLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search playtomic matches: %w", err)
	}

	report := &ImportReport{Fetched: len(summaries)}
	for _, s := range summaries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rated, err := p.importMatch(ctx, s.MatchID, dryRun)
		switch {
		case err == nil && rated:
			report.Rated++
			report.Matches = append(report.Matches, s.MatchID)
		case err == nil:
			report.Skipped++
		case errors.Is(err, club.ErrMatchAlreadyRated), errors.Is(err, playtomic.ErrNotRateable):
			log.Debug("Skipping playtomic match", "matchID", s.MatchID, "reason", err)
			report.Skipped++
		default:
			log.Error("Failed to import playtomic match", "error", err, "matchID", s.MatchID)
			report.Failed++
		}
	}
	log.Info("Playtomic import finished", "fetched", report.Fetched, "rated", report.Rated, "skipped", report.Skipped, "failed", report.Failed, "dryRun", dryRun)
	return report, nil
}

func (p *Processor) importMatch(ctx context.Context, matchID string, dryRun bool) (bool, error) {
	already, err := p.store.IsMatchRated(matchID)
	if err != nil {
		return false, err
	}
	if already {
		return false, nil
	}

	match, err := p.cfg.Playtomic.GetSpecificMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	if err := match.CheckRateable(); err != nil {
		p.metrics.IncMatchesSkipped("not_rateable")
		return false, err
	}
	team1Won, err := match.Team1Won()
	if err != nil {
		p.metrics.IncMatchesSkipped("not_rateable")
		return false, err
	}

	in := MatchResult{
		MatchID:  match.MatchID,
		Source:   SourcePlaytomic,
		Team1:    teamPlayers(match.Teams[0]),
		Team2:    teamPlayers(match.Teams[1]),
		Score:    match.ScoreLine(),
		Team1Won: team1Won,
		PlayedAt: match.Start,
	}
	if _, err := p.RateMatch(ctx, in, dryRun); err != nil {
		return false, err
	}
	return true, nil
}

func teamPlayers(t playtomic.Team) []MatchPlayer {
	out := make([]MatchPlayer, 0, len(t.Players))
	for _, pl := range t.Players {
		out = append(out, MatchPlayer{ID: pl.UserID, Name: pl.Name})
	}
	return out
}
