// Package back implements the domain core of the Rankle ladder: score
// intake, the per-round Glicko-2 orchestration, leaderboard reads, and the
// full-history recalculation. All storage goes through SQLite via sqlx
// transactions; the rating math itself lives in rankle/internal/rating.
package back

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Back struct {
	db    *sqlx.DB
	locks *roundLocks
}

func New(sqlDriver string, sqlDSN string) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could ever
	// come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	return &Back{
		db:    db,
		locks: newRoundLocks(),
	}, nil
}

type transactionCallback func(*sqlx.Tx) error

func (b *Back) transaction(cb transactionCallback) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s\noriginal error: %s", err2, err)
		}

		return err
	}

	return tx.Commit()
}

// LoadFixtures creates a demo tenant with a handful of submitted scores for
// quick testing during development.
func (b *Back) LoadFixtures() error {
	now := time.Now()
	scores := []struct {
		player, text string
		at           time.Time
	}{
		{"Ann", "#Tradle #892 3/6", now.Add(-49 * time.Hour)},
		{"Bob", "#Tradle #892 5/6", now.Add(-48 * time.Hour)},
		{"Chloé", "#Tradle #892 X/6", now.Add(-47 * time.Hour)},
		{"Ann", "#Tradle #893 2/6", now.Add(-25 * time.Hour)},
		{"Bob", "#Tradle #893 2/6", now.Add(-24 * time.Hour)},
		{"Ann", "#Tradle #894 4/6", now.Add(-1 * time.Hour)},
	}

	for _, v := range scores {
		if _, _, err := b.SubmitScore("demo", v.player, v.text, v.at); err != nil {
			return err
		}
	}

	return nil
}
