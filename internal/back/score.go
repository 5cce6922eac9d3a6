package back

import (
	"errors"
	"rankle/internal/util"
	"regexp"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// ScoreFailed is the raw value recorded when the player did not solve the
// puzzle ("X/6"). Solved games use the guess count, 1-6.
const ScoreFailed = 7

// ErrDuplicateScore is returned when a player submits a second score for a
// round they already have a score for.
var ErrDuplicateScore = errors.New("a score for this player and round already exists")

// A Score is one player's immutable result for one round (one day's puzzle),
// unique per (tenant, player, round).
type Score struct {
	ID        util.UUIDAsBlob
	TenantID  util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	Player  string
	Round   int
	Score   int // 1-6 guesses, 7 for a fail
	RawText string
}

func NewScore(tenantID util.UUIDAsBlob, player string, round, score int, rawText string, at time.Time) Score {
	return Score{
		ID:        util.NewUUIDAsBlob(),
		TenantID:  tenantID,
		CreatedAt: util.TimeAsTimestamp(at),
		Player:    player,
		Round:     round,
		Score:     score,
		RawText:   rawText,
	}
}

// Solved is true when the player found the answer within six guesses.
func (s Score) Solved() bool {
	return s.Score < ScoreFailed
}

func (s *Score) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Score").SetMap(squirrel.Eq{
		"ID":        s.ID,
		"TenantID":  s.TenantID,
		"CreatedAt": s.CreatedAt,
		"Player":    s.Player,
		"Round":     s.Round,
		"Score":     s.Score,
		"RawText":   s.RawText,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateScore
		}

		return err
	}

	return nil
}

// scorePattern matches Tradle share texts, eg. "#Tradle #1419 3/6" or
// "#Tradle #1419 X/6" anywhere in the pasted blob.
var scorePattern = regexp.MustCompile(`#Tradle #(\d+) (\d|X)/6`)

// ParseScoreText extracts the round number and raw score value from a pasted
// share text. A failed puzzle ("X") maps to ScoreFailed.
func ParseScoreText(text string) (round int, score int, _ error) {
	matches := scorePattern.FindStringSubmatch(text)
	if matches == nil {
		return 0, 0, util.ErrPublic("invalid score format, expected: #Tradle #NNNN X/6")
	}

	round, err := strconv.Atoi(matches[1])
	if err != nil || round <= 0 {
		return 0, 0, util.ErrPublic("invalid round number")
	}

	if matches[2] == "X" {
		return round, ScoreFailed, nil
	}

	score, err = strconv.Atoi(matches[2])
	if err != nil || score < 1 || score > 6 {
		return 0, 0, util.ErrPublic("invalid score value, expected 1-6 or X")
	}

	return round, score, nil
}

// getRoundScores returns the scores recorded for a round up to a point in
// time, the submitter excluded: their round-mates so far. The time bound is
// what keeps a replay faithful: without it, replaying an old score would see
// round-mates that had not submitted yet at the time.
func getRoundScores(
	tx *sqlx.Tx,
	tenantID util.UUIDAsBlob,
	round int,
	excludePlayer string,
	asOf time.Time,
) ([]Score, error) {
	var ret []Score
	query := `SELECT * FROM Score
              WHERE TenantID = ? AND Round = ? AND Player != ? AND CreatedAt <= ?`
	if err := tx.Select(&ret, query, tenantID, round, excludePlayer, util.TimeAsTimestamp(asOf)); err != nil {
		return nil, err
	}

	return ret, nil
}

// getScoresChronological returns every score of a tenant in replay order.
// The (round, submission time) ordering is load-bearing: it reproduces who
// submitted before whom within a round, which the retroactive rating pass
// depends on.
func getScoresChronological(tx *sqlx.Tx, tenantID util.UUIDAsBlob) ([]Score, error) {
	var ret []Score
	query := `SELECT * FROM Score WHERE TenantID = ? ORDER BY Round ASC, CreatedAt ASC`
	if err := tx.Select(&ret, query, tenantID); err != nil {
		return nil, err
	}

	return ret, nil
}

// getScores returns every score of a tenant, newest rounds first, for the
// score feed.
func getScores(tx *sqlx.Tx, tenantID util.UUIDAsBlob) ([]Score, error) {
	var ret []Score
	query := `SELECT * FROM Score WHERE TenantID = ? ORDER BY Round DESC, CreatedAt DESC`
	if err := tx.Select(&ret, query, tenantID); err != nil {
		return nil, err
	}

	return ret, nil
}
