package back

// This file contains read-side accessors for the web frontend.
// Please do not call them outside of the webserver.

import (
	"github.com/jmoiron/sqlx"
)

// GetScores returns the full score feed of a tenant, newest rounds first.
// The tenant is created on first read so a fresh key returns an empty board
// rather than a 404.
func (b *Back) GetScores(tenantKey string) (out []Score, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		tenant, err := getOrCreateTenantByKey(tx, tenantKey)
		if err != nil {
			return err
		}

		out, err = getScores(tx, tenant.ID)
		return err
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// GetLeaderboard returns every rated player of a tenant ordered by
// descending conservative rating.
func (b *Back) GetLeaderboard(tenantKey string) (out []PlayerRating, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		tenant, err := getOrCreateTenantByKey(tx, tenantKey)
		if err != nil {
			return err
		}

		out, err = getPlayerRatings(tx, tenant.ID)
		return err
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// GetRatingHistory returns a player's per-round rating snapshots in round
// order, for graphing progression.
func (b *Back) GetRatingHistory(tenantKey, player string) (out []RatingHistoryEntry, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		tenant, err := getOrCreateTenantByKey(tx, tenantKey)
		if err != nil {
			return err
		}

		out, err = getRatingHistory(tx, tenant.ID, player)
		return err
	}); err != nil {
		return nil, err
	}

	return out, nil
}
