package back

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

// Recalculate wipes all rating state of a tenant (or every tenant when the
// key is empty) and rebuilds it by replaying the full score log in
// submission order, as if every score arrived live.
//
// The log is immutable and the history writes replace-by-key, so running
// this twice always converges to the same ratings and history.
func (b *Back) Recalculate(tenantKey string) error {
	var tenants []Tenant
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		if tenantKey == "" {
			tenants, err = getTenants(tx)
			return err
		}

		tenant, err := getTenantByKey(tx, tenantKey)
		if err != nil {
			return fmt.Errorf("unable to find tenant with key '%s': %w", tenantKey, err)
		}
		tenants = []Tenant{tenant}

		return nil
	}); err != nil {
		return err
	}

	start := time.Now()
	for _, tenant := range tenants {
		if err := b.recalculateTenant(tenant); err != nil {
			return err
		}
	}
	log.Printf("info: recomputed ratings for %d tenants in %s", len(tenants), time.Since(start))

	return nil
}

func (b *Back) recalculateTenant(tenant Tenant) error {
	var scores []Score
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		if err := clearRatings(tx, tenant.ID); err != nil {
			return fmt.Errorf("unable to prune ratings: %w", err)
		}

		scores, err = getScoresChronological(tx, tenant.ID)
		return err
	}); err != nil {
		return err
	}

	log.Printf("debug: replaying %d scores for tenant %s", len(scores), tenant.ID)

	for i, score := range scores {
		if err := b.transaction(func(tx *sqlx.Tx) error {
			_, err := updateRatingsForRound(
				tx, tenant.ID,
				score.Player, score.Round, score.Score,
				score.CreatedAt.Time(),
			)
			return err
		}); err != nil {
			return fmt.Errorf("unable to replay score %s: %w", score.ID, err)
		}

		if (i+1)%500 == 0 {
			log.Printf("debug: replayed %d/%d scores", i+1, len(scores))
		}
	}

	return nil
}
