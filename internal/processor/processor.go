package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
	"github.com/mauv0809/padel-ladder/internal/ranking"
)

// New creates a new Processor. A nil engine uses the default division table and policy.
func New(store Store, engine *ranking.Engine, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, cfg Config) *Processor {
	if engine == nil {
		engine = ranking.NewEngine(nil)
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = ranking.French
	}
	return &Processor{
		store:    store,
		engine:   engine,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// Engine returns the rating engine used by the processor.
func (p *Processor) Engine() *ranking.Engine {
	return p.engine
}

// RateMatch rates a finished match and, unless dryRun is set, persists the
// new ratings, publishes events and notifies division changes. Players that
// are not known yet are created with the initial rating.
func (p *Processor) RateMatch(ctx context.Context, in MatchResult, dryRun bool) (*RatedMatch, error) {
	startTime := time.Now()
	defer func() {
		p.metrics.ObserveProcessingDuration(time.Since(startTime).Seconds())
	}()

	ids, err := playerIDs(in)
	if err != nil {
		p.metrics.IncMatchesSkipped("invalid")
		return nil, err
	}
	var (
		match   club.RatedMatch
		result  *ranking.Result
		players map[string]club.Player
	)
	for attempt := 1; ; attempt++ {
		match, result, players, err = p.rateAndApply(in, ids, dryRun)
		if err == nil {
			break
		}
		if !errors.Is(err, club.ErrStaleRating) || attempt == maxStaleRetries {
			return nil, err
		}
		log.Warn("Ratings moved while rating match, retrying", "matchID", in.MatchID, "attempt", attempt)
	}

	p.metrics.IncMatchesRated()
	p.metrics.ObserveRatingDelta(float64(result.Team1.Delta))
	p.metrics.ObserveRatingDelta(float64(result.Team2.Delta))
	for _, c := range result.DivisionChanges {
		p.metrics.IncDivisionChange(c.IsPromotion)
	}
	log.Info("Rated match", "matchID", match.ID, "score", match.Score, "team1Won", match.Team1Won,
		"team1Delta", match.Team1Delta, "team2Delta", match.Team2Delta, "divisionChanges", len(result.DivisionChanges), "dryRun", dryRun)

	rated := &RatedMatch{Match: match, Result: result, DryRun: dryRun}
	if !dryRun {
		p.publish(ctx, match, result)
	}
	rated.Notifications = p.notify(ctx, match, result, players, dryRun)
	return rated, nil
}

// rateAndApply holds the processor lock from reading ratings to writing them,
// so two matches sharing a player never rate from the same snapshot.
func (p *Processor) rateAndApply(in MatchResult, ids []string, dryRun bool) (club.RatedMatch, *ranking.Result, map[string]club.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if in.MatchID == "" {
		in.MatchID = uuid.NewString()
	} else {
		rated, err := p.store.IsMatchRated(in.MatchID)
		if err != nil {
			return club.RatedMatch{}, nil, nil, fmt.Errorf("failed to check match %s: %w", in.MatchID, err)
		}
		if rated {
			p.metrics.IncMatchesSkipped("already_rated")
			return club.RatedMatch{}, nil, nil, fmt.Errorf("%w: %s", club.ErrMatchAlreadyRated, in.MatchID)
		}
	}
	if in.Source == "" {
		in.Source = SourceManual
	}

	players, err := p.loadPlayers(in, ids, dryRun)
	if err != nil {
		return club.RatedMatch{}, nil, nil, err
	}

	table := p.engine.Divisions()
	team1 := p.ratingInputs(table, players, in.Team1)
	team2 := p.ratingInputs(table, players, in.Team2)
	result, err := p.engine.Rate(team1, team2, in.Score, in.Team1Won)
	if err != nil {
		p.metrics.IncMatchesSkipped("invalid")
		return club.RatedMatch{}, nil, nil, fmt.Errorf("failed to rate match %s: %w", in.MatchID, err)
	}

	match := club.RatedMatch{
		ID:         in.MatchID,
		Source:     in.Source,
		Score:      result.Score.String(),
		Team1Won:   in.Team1Won,
		Team1:      [2]string{in.Team1[0].ID, in.Team1[1].ID},
		Team2:      [2]string{in.Team2[0].ID, in.Team2[1].ID},
		Team1Delta: result.Team1.Delta,
		Team2Delta: result.Team2.Delta,
		PlayedAt:   in.PlayedAt,
		RatedAt:    time.Now().Unix(),
	}
	updates := make([]club.RatingUpdate, 0, len(result.Deltas))
	for _, d := range result.Deltas {
		updates = append(updates, club.RatingUpdate{
			PlayerID:   d.PlayerID,
			OldRating:  d.OldRating,
			NewRating:  d.NewRating,
			Delta:      d.PointsChange,
			DivisionID: table.Classify(d.NewRating).ID,
		})
	}

	if dryRun {
		log.Info("[Dry Run] Would apply rating changes", "matchID", match.ID, "team1Delta", match.Team1Delta, "team2Delta", match.Team2Delta)
	} else if err := p.store.ApplyRatingChanges(match, updates); err != nil {
		if errors.Is(err, club.ErrMatchAlreadyRated) {
			p.metrics.IncMatchesSkipped("already_rated")
		}
		return club.RatedMatch{}, nil, nil, fmt.Errorf("failed to apply rating changes for %s: %w", match.ID, err)
	}

	return match, result, players, nil
}

// playerIDs checks the team shapes and returns the four participant IDs.
func playerIDs(in MatchResult) ([]string, error) {
	if len(in.Team1) != 2 || len(in.Team2) != 2 {
		return nil, fmt.Errorf("%w: teams have %d and %d players", ranking.ErrInvalidTeam, len(in.Team1), len(in.Team2))
	}
	ids := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	for _, mp := range append(append([]MatchPlayer{}, in.Team1...), in.Team2...) {
		if mp.ID == "" {
			return nil, fmt.Errorf("%w: empty player id", ranking.ErrInvalidTeam)
		}
		if seen[mp.ID] {
			return nil, fmt.Errorf("%w: %s", ranking.ErrDuplicatePlayer, mp.ID)
		}
		seen[mp.ID] = true
		ids = append(ids, mp.ID)
	}
	return ids, nil
}

func (p *Processor) loadPlayers(in MatchResult, ids []string, dryRun bool) (map[string]club.Player, error) {
	known, err := p.store.GetPlayers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	players := make(map[string]club.Player, len(ids))
	for _, pl := range known {
		players[pl.ID] = pl
	}

	var created []club.Player
	initialDivision := p.engine.Divisions().Classify(p.cfg.InitialRating)
	for _, mp := range append(append([]MatchPlayer{}, in.Team1...), in.Team2...) {
		if _, ok := players[mp.ID]; ok {
			continue
		}
		pl := club.Player{
			ID:         mp.ID,
			Name:       mp.Name,
			Rating:     p.cfg.InitialRating,
			DivisionID: initialDivision.ID,
		}
		players[mp.ID] = pl
		created = append(created, pl)
	}
	if len(created) == 0 {
		return players, nil
	}
	if dryRun {
		log.Info("[Dry Run] Would create players", "count", len(created))
		return players, nil
	}
	if err := p.store.UpsertPlayers(created); err != nil {
		return nil, fmt.Errorf("failed to create players: %w", err)
	}
	log.Info("Created new players", "count", len(created), "initialRating", p.cfg.InitialRating)
	return players, nil
}

func (p *Processor) ratingInputs(table *ranking.Table, players map[string]club.Player, team []MatchPlayer) []ranking.PlayerRatingInput {
	out := make([]ranking.PlayerRatingInput, 0, len(team))
	for _, mp := range team {
		pl := players[mp.ID]
		out = append(out, ranking.PlayerRatingInput{
			ID:              pl.ID,
			Rating:          pl.Rating,
			ExperienceCount: pl.MatchesPlayed,
			DivisionLevel:   table.Classify(pl.Rating).Level,
		})
	}
	return out
}

// publish emits the match and division events. Failures are logged, the
// ratings are already committed.
func (p *Processor) publish(ctx context.Context, match club.RatedMatch, result *ranking.Result) {
	event := MatchRatedEvent{
		MatchID:  match.ID,
		Source:   match.Source,
		Score:    match.Score,
		Team1Won: match.Team1Won,
		Deltas:   result.Deltas,
		RatedAt:  match.RatedAt,
	}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventMatchRated, event); err != nil {
		log.Error("Failed to publish match rated event", "error", err, "matchID", match.ID)
	}

	newRatings := make(map[string]float64, len(result.Deltas))
	for _, d := range result.Deltas {
		newRatings[d.PlayerID] = d.NewRating
	}
	for _, c := range result.DivisionChanges {
		ev := DivisionChangedEvent{
			MatchID:     match.ID,
			PlayerID:    c.PlayerID,
			OldDivision: c.OldDivision.ID,
			NewDivision: c.NewDivision.ID,
			IsPromotion: c.IsPromotion,
			NewRating:   newRatings[c.PlayerID],
		}
		if err := p.pubsub.SendMessage(ctx, pubsub.EventDivisionChanged, ev); err != nil {
			log.Error("Failed to publish division change", "error", err, "playerID", c.PlayerID)
		}
	}
}

// notify sends the match summary and one message per division change.
func (p *Processor) notify(ctx context.Context, match club.RatedMatch, result *ranking.Result, players map[string]club.Player, dryRun bool) []notifier.Notification {
	summary := notifier.MatchSummary{
		MatchID:    match.ID,
		Score:      match.Score,
		Winners:    names(players, match.Team1[:]),
		Losers:     names(players, match.Team2[:]),
		WinnerGain: match.Team1Delta,
		LoserLoss:  match.Team2Delta,
	}
	if !match.Team1Won {
		summary.Winners, summary.Losers = summary.Losers, summary.Winners
		summary.WinnerGain, summary.LoserLoss = match.Team2Delta, match.Team1Delta
	}
	if err := p.notifier.SendMatchSummary(ctx, summary, dryRun); err != nil {
		log.Error("Failed to send match summary", "error", err, "matchID", match.ID)
	}

	newRatings := make(map[string]float64, len(result.Deltas))
	for _, d := range result.Deltas {
		newRatings[d.PlayerID] = d.NewRating
	}
	sent := make([]notifier.Notification, 0, len(result.DivisionChanges))
	for _, c := range result.DivisionChanges {
		pl := players[c.PlayerID]
		lang := p.cfg.DefaultLanguage
		if pl.Language != "" {
			lang = ranking.ParseLanguage(pl.Language)
		}
		msg := ranking.DivisionChangeMessage(c, newRatings[c.PlayerID], lang)
		n := notifier.Notification{
			PlayerID:   c.PlayerID,
			PlayerName: pl.Name,
			Title:      msg.Title,
			Body:       msg.Body,
			Promotion:  c.IsPromotion,
		}
		if pl.SlackUserID != nil {
			n.SlackUserID = *pl.SlackUserID
		}
		if err := p.notifier.SendDivisionChange(ctx, n, dryRun); err != nil {
			log.Error("Failed to send division change", "error", err, "playerID", c.PlayerID)
			continue
		}
		sent = append(sent, n)
	}
	return sent
}

func names(players map[string]club.Player, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := players[id].Name; name != "" {
			out = append(out, name)
		} else {
			out = append(out, id)
		}
	}
	return out
}
