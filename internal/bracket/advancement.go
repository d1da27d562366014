// internal/bracket/advancement.go
// Format-specific round-completion advancement (spec §4.4 round-completion
// detection)

package bracket

import (
	"context"
	"log"

	"tournament-engine/internal/models"
	"tournament-engine/internal/pairing"
	"tournament-engine/internal/store"
)

// checkRoundCompletion marks round completed once every match in it is
// Completed, and invokes format-specific advancement when the bracket's
// auto_generate flag is set.
func checkRoundCompletion(ctx context.Context, s store.Store, logger *log.Logger, roundID int64) error {
	round, err := s.GetBracketRound(ctx, roundID)
	if err != nil {
		return err
	}
	if round.Status == models.RoundCompleted {
		return nil
	}

	matches, err := s.ListMatchesByRound(ctx, roundID)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.Status != models.MatchCompleted {
			return nil
		}
	}

	now := *matches[0].CompletedAt
	for _, m := range matches {
		if m.CompletedAt != nil && m.CompletedAt.After(now) {
			now = *m.CompletedAt
		}
	}
	round.Status = models.RoundCompleted
	round.CompletedAt = &now
	if err := s.UpdateBracketRound(ctx, round); err != nil {
		return err
	}

	bracket, err := s.GetBracketFormat(ctx, round.BracketFormatID)
	if err != nil {
		return err
	}
	if !bracket.AutoGenerate {
		return nil
	}

	switch bracket.Format {
	case models.FormatSingleElimination:
		return nil // propagation alone drives advancement
	case models.FormatSwiss:
		return advanceSwiss(ctx, s, logger, bracket, round)
	case models.FormatGuaranteedMatches:
		return advanceGuaranteedMatches(ctx, s, logger, bracket, round)
	case models.FormatRoundRobin:
		return advanceRoundRobin(ctx, s, bracket)
	case models.FormatDoubleElimination:
		return advanceDoubleElimination(ctx, s, logger, bracket, round)
	default:
		return models.NewError(models.KindConfigError, "unknown bracket format: "+string(bracket.Format))
	}
}

// bracketFighterIDs collects the distinct fighter ids that have appeared
// in any match of the bracket so far.
func bracketFighterIDs(ctx context.Context, s store.Store, bracketID int64) ([]int64, error) {
	matches, err := s.ListMatchesByBracket(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	var ids []int64
	for _, m := range matches {
		if m.FighterAID != nil && !seen[*m.FighterAID] {
			seen[*m.FighterAID] = true
			ids = append(ids, *m.FighterAID)
		}
		if m.FighterBID != nil && !seen[*m.FighterBID] {
			seen[*m.FighterBID] = true
			ids = append(ids, *m.FighterBID)
		}
	}
	return ids, nil
}

func fightersByIDs(ctx context.Context, s store.Store, ids []int64) (map[int64]*models.Fighter, error) {
	out := make(map[int64]*models.Fighter, len(ids))
	for _, id := range ids {
		f, err := s.GetFighter(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = f
	}
	return out, nil
}

func advanceSwiss(ctx context.Context, s store.Store, logger *log.Logger, bracket *models.BracketFormat, round *models.BracketRound) error {
	fighterIDs, err := bracketFighterIDs(ctx, s, bracket.ID)
	if err != nil {
		return err
	}
	totalRounds := round.Metadata.TotalRounds
	if totalRounds == 0 {
		totalRounds = pairing.TotalRounds(bracket, len(fighterIDs))
	}

	_, finalize, err := pairing.SwissNextRound(ctx, s, bracket, fighterIDs, round.RoundNumber, totalRounds)
	if err != nil {
		return err
	}
	if finalize {
		return finalizeBracket(ctx, s, bracket)
	}
	return activatePendingRounds(ctx, s, logger, bracket.EventID)
}

func advanceGuaranteedMatches(ctx context.Context, s store.Store, logger *log.Logger, bracket *models.BracketFormat, round *models.BracketRound) error {
	fighterIDs, err := bracketFighterIDs(ctx, s, bracket.ID)
	if err != nil {
		return err
	}
	fighters, err := fightersByIDs(ctx, s, fighterIDs)
	if err != nil {
		return err
	}

	_, finalize, err := pairing.GuaranteedNextRound(ctx, s, bracket, fighterIDs, fighters, round.RoundNumber)
	if err != nil {
		return err
	}
	if finalize {
		return finalizeBracket(ctx, s, bracket)
	}
	return activatePendingRounds(ctx, s, logger, bracket.EventID)
}

func advanceRoundRobin(ctx context.Context, s store.Store, bracket *models.BracketFormat) error {
	rounds, err := s.ListRoundsByBracket(ctx, bracket.ID)
	if err != nil {
		return err
	}

	var next *models.BracketRound
	for _, r := range rounds {
		if r.Status == models.RoundPending {
			next = r
			break
		}
	}
	if next == nil {
		return finalizeBracket(ctx, s, bracket)
	}

	next.Status = models.RoundInProgress
	if err := s.UpdateBracketRound(ctx, next); err != nil {
		return err
	}

	matches, err := s.ListMatchesByRound(ctx, next.ID)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.Status != models.MatchPending {
			continue
		}
		m.Status = models.MatchReady
		if err := s.UpdateMatch(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// advanceDoubleElimination branches on the completed round's lane: winners
// completions feed the next winners round and any drop-down losers rounds
// fed by this round number; losers completions feed the next advancement
// round and, at the losers final, the grand-finals B slot; a completed
// grand-finals round finalizes the bracket.
func advanceDoubleElimination(ctx context.Context, s store.Store, logger *log.Logger, bracket *models.BracketFormat, round *models.BracketRound) error {
	if round.BracketType != nil && *round.BracketType == models.BracketTypeFinals {
		return finalizeBracket(ctx, s, bracket)
	}

	rounds, err := s.ListRoundsByBracket(ctx, bracket.ID)
	if err != nil {
		return err
	}

	if round.BracketType != nil && *round.BracketType == models.BracketTypeWinners {
		for _, r := range rounds {
			if r.BracketType != nil && *r.BracketType == models.BracketTypeWinners &&
				r.Status == models.RoundPending && r.RoundNumber == round.RoundNumber+1 {
				if err := activateIfFullyPopulated(ctx, s, r); err != nil {
					return err
				}
			}
			if r.BracketType != nil && *r.BracketType == models.BracketTypeLosers &&
				r.Metadata.Type == models.RoundDataDropDown && r.Status == models.RoundPending &&
				r.Metadata.FeedsFromWinners != nil && *r.Metadata.FeedsFromWinners == round.RoundNumber {
				if err := activateDropDownRound(ctx, s, r); err != nil {
					return err
				}
			}
		}
	}

	if round.BracketType != nil && *round.BracketType == models.BracketTypeLosers {
		anyOpenLosers := false
		for _, r := range rounds {
			if r.BracketType != nil && *r.BracketType == models.BracketTypeLosers && r.Status != models.RoundCompleted {
				anyOpenLosers = true
				if r.Status == models.RoundPending && r.Metadata.Type == models.RoundDataAdvancement {
					if err := activateIfFullyPopulated(ctx, s, r); err != nil {
						return err
					}
				}
			}
		}
		if !anyOpenLosers {
			if err := resolveLosersChampionIntoFinals(ctx, s, bracket, round); err != nil {
				return err
			}
		}
	}

	return checkGrandFinalsActivation(ctx, s, bracket)
}

func activateIfFullyPopulated(ctx context.Context, s store.Store, round *models.BracketRound) error {
	matches, err := s.ListMatchesByRound(ctx, round.ID)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.FighterAID == nil || m.FighterBID == nil {
			return nil
		}
	}
	round.Status = models.RoundInProgress
	if err := s.UpdateBracketRound(ctx, round); err != nil {
		return err
	}
	for _, m := range matches {
		if m.Status == models.MatchPending {
			m.Status = models.MatchReady
			if err := s.UpdateMatch(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// activateDropDownRound promotes matches whose dependencies are already
// both resolved (requiresWinner=false dependents fill the moment the
// winners match they depend on completes, since the loser is known then
// too) and marks the round InProgress regardless of whether every match
// is populated yet, since drop-down slots fill as winners matches resolve
// independently of each other.
func activateDropDownRound(ctx context.Context, s store.Store, round *models.BracketRound) error {
	round.Status = models.RoundInProgress
	if err := s.UpdateBracketRound(ctx, round); err != nil {
		return err
	}
	matches, err := s.ListMatchesByRound(ctx, round.ID)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.Status == models.MatchPending && m.FighterAID != nil && (m.FighterBID != nil || m.DependsOnMatchBID == nil) {
			if m.FighterBID != nil {
				m.Status = models.MatchReady
			}
			if err := s.UpdateMatch(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveLosersChampionIntoFinals(ctx context.Context, s store.Store, bracket *models.BracketFormat, losersFinalRound *models.BracketRound) error {
	matches, err := s.ListMatchesByRound(ctx, losersFinalRound.ID)
	if err != nil {
		return err
	}
	if len(matches) == 0 || matches[0].Result == nil {
		return nil
	}
	champion := matches[0].WinnerID()
	if champion == nil {
		return nil
	}

	rounds, err := s.ListRoundsByBracket(ctx, bracket.ID)
	if err != nil {
		return err
	}
	for _, r := range rounds {
		if r.BracketType == nil || *r.BracketType != models.BracketTypeFinals {
			continue
		}
		finalsMatches, err := s.ListMatchesByRound(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, m := range finalsMatches {
			if m.FighterBID == nil {
				m.FighterBID = champion
				if m.FighterAID != nil {
					m.Status = models.MatchReady
				}
				if err := s.UpdateMatch(ctx, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkGrandFinalsActivation(ctx context.Context, s store.Store, bracket *models.BracketFormat) error {
	rounds, err := s.ListRoundsByBracket(ctx, bracket.ID)
	if err != nil {
		return err
	}
	for _, r := range rounds {
		if r.BracketType == nil || *r.BracketType != models.BracketTypeFinals {
			continue
		}
		return activateIfFullyPopulated(ctx, s, r)
	}
	return nil
}

func finalizeBracket(ctx context.Context, s store.Store, bracket *models.BracketFormat) error {
	bracket.Finalized = true
	return s.UpdateBracketFormat(ctx, bracket)
}
