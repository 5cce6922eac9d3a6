package back

import (
	"fmt"
	"rankle/internal/rating"
	"rankle/internal/util"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// SubmitScore records a pasted share text for a player and updates every
// rating the new result touches. It returns the stored score and the
// submitter's new rating.
//
// The whole update runs in a single transaction under a per-(tenant, round)
// lock: it either commits in full or leaves the previous state untouched.
func (b *Back) SubmitScore(tenantKey, player, rawText string, now time.Time) (Score, PlayerRating, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Score{}, PlayerRating{}, util.ErrPublic("player name required")
	}

	rawText = strings.TrimSpace(rawText)
	round, score, err := ParseScoreText(rawText)
	if err != nil {
		return Score{}, PlayerRating{}, err
	}

	unlock := b.locks.lock(tenantKey, round)
	defer unlock()

	var (
		s  Score
		pr PlayerRating
	)
	if err := b.transaction(func(tx *sqlx.Tx) error {
		tenant, err := getOrCreateTenantByKey(tx, tenantKey)
		if err != nil {
			return err
		}

		s = NewScore(tenant.ID, player, round, score, rawText, now)
		if err := s.insert(tx); err != nil {
			return err
		}

		pr, err = updateRatingsForRound(tx, tenant.ID, player, round, score, now)
		return err
	}); err != nil {
		return Score{}, PlayerRating{}, err
	}

	return s, pr, nil
}

// updateRatingsForRound applies one accepted score to the round's ratings:
//
//  1. The submitter gets a single batched Glicko-2 update against every
//     round-mate recorded so far, with idle-time deviation decay applied
//     first, and their LastPlayedAt refreshed.
//  2. Each round-mate then gets an independent single-opponent update
//     against the submitter's newly computed rating with the complementary
//     outcome, their own LastPlayedAt preserved.
//
// Every round-mate in the retroactive pass sees the same final submitter
// state, so that pass commutes across round-mates. The submitter's batched
// update however is not equivalent to updating against each round-mate one
// at a time; both behaviors are deliberate and rating history depends on
// them, so neither must be "improved" silently.
func updateRatingsForRound(
	tx *sqlx.Tx,
	tenantID util.UUIDAsBlob,
	player string,
	round int,
	score int,
	now time.Time,
) (PlayerRating, error) {
	submitter, err := getPlayerRating(tx, tenantID, player)
	if err != nil {
		return PlayerRating{}, err
	}

	decayedRD := rating.DecayDeviation(submitter.Deviation, submitter.lastPlayed(), now)

	mates, err := getRoundScores(tx, tenantID, round, player, now)
	if err != nil {
		return PlayerRating{}, err
	}

	if len(mates) == 0 {
		// First submission of the round: no rating movement, only the
		// decayed deviation and the refreshed activity clock.
		submitter.Deviation = decayedRD
		submitter.LastPlayedAt = util.NewNullTimeAsTimestamp(now)
		if err := submitter.upsert(tx); err != nil {
			return PlayerRating{}, err
		}

		if err := submitter.upsertHistory(tx, round); err != nil {
			return PlayerRating{}, err
		}

		return submitter, nil
	}

	opponents := make([]rating.Opponent, 0, len(mates))
	for _, mate := range mates {
		mateRating, err := getPlayerRating(tx, tenantID, mate.Player)
		if err != nil {
			return PlayerRating{}, err
		}

		opponents = append(opponents, rating.Opponent{
			Rating:    mateRating.Rating,
			Deviation: rating.DecayDeviation(mateRating.Deviation, mateRating.lastPlayed(), now),
			Score:     rating.OutcomeOf(score, mate.Score).Score(),
		})
	}

	updated, err := rating.Update(rating.Rating{
		Rating:     submitter.Rating,
		Deviation:  decayedRD,
		Volatility: submitter.Volatility,
	}, opponents)
	if err != nil {
		return PlayerRating{}, fmt.Errorf("unable to update rating of %s: %w", player, err)
	}

	submitter.setGlicko(updated)
	submitter.LastPlayedAt = util.NewNullTimeAsTimestamp(now)
	if err := submitter.upsert(tx); err != nil {
		return PlayerRating{}, err
	}

	if err := submitter.upsertHistory(tx, round); err != nil {
		return PlayerRating{}, err
	}

	if err := updateRoundMates(tx, submitter, mates, score, now); err != nil {
		return PlayerRating{}, err
	}

	return submitter, nil
}

// updateRoundMates is the retroactive pass: every player who already had a
// score for the round gains one extra game result against the submitter.
func updateRoundMates(
	tx *sqlx.Tx,
	submitter PlayerRating,
	mates []Score,
	submitterScore int,
	now time.Time,
) error {
	for _, mate := range mates {
		mateRating, err := getPlayerRating(tx, submitter.TenantID, mate.Player)
		if err != nil {
			return err
		}

		updated, err := rating.Update(rating.Rating{
			Rating:     mateRating.Rating,
			Deviation:  rating.DecayDeviation(mateRating.Deviation, mateRating.lastPlayed(), now),
			Volatility: mateRating.Volatility,
		}, []rating.Opponent{{
			Rating:    submitter.Rating,
			Deviation: submitter.Deviation,
			Score:     rating.OutcomeOf(mate.Score, submitterScore).Score(),
		}})
		if err != nil {
			return fmt.Errorf("unable to update rating of %s: %w", mate.Player, err)
		}

		// LastPlayedAt deliberately kept as-is: a retroactive game does not
		// reset the idle-decay clock of a player who did not just play.
		mateRating.setGlicko(updated)
		if err := mateRating.upsert(tx); err != nil {
			return err
		}

		if err := mateRating.upsertHistory(tx, mate.Round); err != nil {
			return err
		}
	}

	return nil
}
