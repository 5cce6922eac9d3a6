package back

import (
	"database/sql"
	"errors"
	"rankle/internal/rating"
	"rankle/internal/util"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// A PlayerRating is the current Glicko-2 state of one player within one
// tenant. It is mutated only by the round orchestrator (back_ranking.go).
type PlayerRating struct {
	TenantID  util.UUIDAsBlob
	Player    string
	CreatedAt util.TimeAsTimestamp

	// Glicko-2
	Rating     float64
	Deviation  float64
	Volatility float64

	// LastPlayedAt is the time of the player's own last submission. A
	// retroactive update caused by someone else's submission never touches
	// it, so idle-time deviation decay keeps accruing from the player's own
	// last game.
	LastPlayedAt util.NullTimeAsTimestamp
}

func NewPlayerRating(tenantID util.UUIDAsBlob, player string) PlayerRating {
	return PlayerRating{
		TenantID:  tenantID,
		Player:    player,
		CreatedAt: util.TimeAsTimestamp(time.Now()),

		Rating:     rating.DefaultRating,
		Deviation:  rating.MaxDeviation,
		Volatility: rating.DefaultVolatility,
	}
}

// Glicko returns the state in the form the rating engine consumes.
func (r PlayerRating) Glicko() rating.Rating {
	return rating.Rating{
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
	}
}

func (r *PlayerRating) setGlicko(g rating.Rating) {
	r.Rating = g.Rating
	r.Deviation = g.Deviation
	r.Volatility = g.Volatility
}

// ConservativeRating is the pessimistic skill floor used to order the
// leaderboard, always derived from the current rating and deviation.
func (r PlayerRating) ConservativeRating() int {
	return rating.ConservativeRating(r.Rating, r.Deviation)
}

// lastPlayed returns the zero time for a player who never played, which is
// what rating.DecayDeviation expects.
func (r PlayerRating) lastPlayed() time.Time {
	if !r.LastPlayedAt.Valid {
		return time.Time{}
	}

	return r.LastPlayedAt.Time.Time()
}

// getPlayerRating gets the current rating for a player in a tenant or
// creates and returns a default rating on the fly.
func getPlayerRating(tx *sqlx.Tx, tenantID util.UUIDAsBlob, player string) (PlayerRating, error) {
	var ret PlayerRating
	query := `SELECT * FROM PlayerRating WHERE TenantID = ? AND Player = ? LIMIT 1`
	err := tx.Get(&ret, query, tenantID, player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewPlayerRating(tenantID, player), nil
		}
		return PlayerRating{}, err
	}

	return ret, nil
}

func (r *PlayerRating) upsert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("PlayerRating").Options("OR REPLACE").SetMap(squirrel.Eq{
		"TenantID":     r.TenantID,
		"Player":       r.Player,
		"CreatedAt":    r.CreatedAt,
		"Rating":       r.Rating,
		"Deviation":    r.Deviation,
		"Volatility":   r.Volatility,
		"LastPlayedAt": r.LastPlayedAt,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// upsertHistory writes the immutable per-round snapshot of this rating.
// Replace semantics: re-deriving the same round for the same player (a
// retroactive update, or a replay) overwrites the previous snapshot.
func (r *PlayerRating) upsertHistory(tx *sqlx.Tx, round int) error {
	query, args, err := squirrel.Insert("RatingHistory").Options("OR REPLACE").SetMap(squirrel.Eq{
		"TenantID":           r.TenantID,
		"Player":             r.Player,
		"Round":              round,
		"Rating":             r.Rating,
		"Deviation":          r.Deviation,
		"ConservativeRating": r.ConservativeRating(),
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// getPlayerRatings returns every rating of a tenant ordered by descending
// conservative rating, the leaderboard order.
func getPlayerRatings(tx *sqlx.Tx, tenantID util.UUIDAsBlob) ([]PlayerRating, error) {
	var ret []PlayerRating
	query := `SELECT * FROM PlayerRating WHERE TenantID = ?
              ORDER BY (Rating - (2*Deviation)) DESC`
	if err := tx.Select(&ret, query, tenantID); err != nil {
		return nil, err
	}

	return ret, nil
}

// A RatingHistoryEntry is one player's rating snapshot right after a given
// round was (re)computed for them, kept for graphing progression.
type RatingHistoryEntry struct {
	TenantID util.UUIDAsBlob
	Player   string
	Round    int

	Rating             float64
	Deviation          float64
	ConservativeRating int
}

func getRatingHistory(tx *sqlx.Tx, tenantID util.UUIDAsBlob, player string) ([]RatingHistoryEntry, error) {
	var ret []RatingHistoryEntry
	query := `SELECT * FROM RatingHistory WHERE TenantID = ? AND Player = ? ORDER BY Round ASC`
	if err := tx.Select(&ret, query, tenantID, player); err != nil {
		return nil, err
	}

	return ret, nil
}

// clearRatings removes all rating state and rating history of a tenant,
// leaving the score log untouched. Only the recalculation uses this.
func clearRatings(tx *sqlx.Tx, tenantID util.UUIDAsBlob) error {
	if _, err := tx.Exec(`DELETE FROM RatingHistory WHERE TenantID = ?`, tenantID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM PlayerRating WHERE TenantID = ?`, tenantID); err != nil {
		return err
	}

	return nil
}
