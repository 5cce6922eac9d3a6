package back

import (
	"database/sql"
	"errors"
	"rankle/internal/util"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// A Tenant is an isolation namespace: one group of friends sharing a
// leaderboard. Every score, rating, and history row is scoped to a tenant,
// there is no cross-tenant visibility.
type Tenant struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	// Key is the opaque string the group shares to read and write its
	// leaderboard.
	Key string
}

func NewTenant(key string) Tenant {
	return Tenant{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Key:       key,
	}
}

func (t *Tenant) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Tenant").SetMap(squirrel.Eq{
		"ID":        t.ID,
		"CreatedAt": t.CreatedAt,
		"Key":       t.Key,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getTenantByKey(tx *sqlx.Tx, key string) (Tenant, error) {
	var ret Tenant
	query := `SELECT * FROM Tenant WHERE Tenant.Key = ? LIMIT 1`
	if err := tx.Get(&ret, query, key); err != nil {
		return Tenant{}, err
	}

	return ret, nil
}

// getOrCreateTenantByKey fetches the tenant for a key, creating it on the
// fly on first use. Anyone holding a key owns the matching leaderboard.
func getOrCreateTenantByKey(tx *sqlx.Tx, key string) (Tenant, error) {
	tenant, err := getTenantByKey(tx, key)
	if err == nil {
		return tenant, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, err
	}

	tenant = NewTenant(key)
	if err := tenant.insert(tx); err != nil {
		return Tenant{}, err
	}

	return tenant, nil
}

func getTenants(tx *sqlx.Tx) ([]Tenant, error) {
	var ret []Tenant
	if err := tx.Select(&ret, `SELECT * FROM Tenant`); err != nil {
		return nil, err
	}

	return ret, nil
}
