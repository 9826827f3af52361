package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

// Schema creates the registrations table. Expiry is nullable: NULL marks a
// permanent registration.
const Schema = `
CREATE TABLE IF NOT EXISTS name_registrations (
	name_hash  TEXT PRIMARY KEY,
	owner      TEXT   NOT NULL,
	controller TEXT   NOT NULL,
	expiry     BIGINT,
	deposit    BIGINT NOT NULL
)`

// PostgresStore persists registrations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed registration store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, hash naming.NameHash) (naming.Registration, error) {
	var (
		owner      string
		controller string
		expiry     sql.NullInt64
		deposit    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT owner, controller, expiry, deposit FROM name_registrations WHERE name_hash = $1`,
		hash.String(),
	).Scan(&owner, &controller, &expiry, &deposit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return naming.Registration{}, sentinel.ErrNotFound
		}
		return naming.Registration{}, fmt.Errorf("get registration: %w", err)
	}
	r := naming.Registration{
		NameHash:   hash,
		Owner:      naming.AccountID(owner),
		Controller: naming.AccountID(controller),
		Deposit:    naming.Balance(deposit),
	}
	if expiry.Valid {
		e := naming.BlockNumber(expiry.Int64)
		r.Expiry = &e
	}
	return r, nil
}

func (s *PostgresStore) Put(ctx context.Context, r naming.Registration) error {
	var expiry sql.NullInt64
	if r.Expiry != nil {
		expiry = sql.NullInt64{Int64: int64(*r.Expiry), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO name_registrations (name_hash, owner, controller, expiry, deposit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name_hash) DO UPDATE SET
			owner      = EXCLUDED.owner,
			controller = EXCLUDED.controller,
			expiry     = EXCLUDED.expiry,
			deposit    = EXCLUDED.deposit
	`, r.NameHash.String(), string(r.Owner), string(r.Controller), expiry, int64(r.Deposit))
	if err != nil {
		return fmt.Errorf("put registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, hash naming.NameHash) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM name_registrations WHERE name_hash = $1`, hash.String())
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]naming.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name_hash, owner, controller, expiry, deposit FROM name_registrations`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []naming.Registration
	for rows.Next() {
		var (
			hash       string
			owner      string
			controller string
			expiry     sql.NullInt64
			deposit    int64
		)
		if err := rows.Scan(&hash, &owner, &controller, &expiry, &deposit); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		parsed, err := naming.ParseNameHash(hash)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		r := naming.Registration{
			NameHash:   parsed,
			Owner:      naming.AccountID(owner),
			Controller: naming.AccountID(controller),
			Deposit:    naming.Balance(deposit),
		}
		if expiry.Valid {
			e := naming.BlockNumber(expiry.Int64)
			r.Expiry = &e
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}
