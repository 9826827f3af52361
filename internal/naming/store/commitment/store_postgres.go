package commitment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

// Schema creates the commitments table. Executed by deploy tooling and the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS name_commitments (
	hash       TEXT PRIMARY KEY,
	depositor  TEXT   NOT NULL,
	owner      TEXT   NOT NULL,
	deposit    BIGINT NOT NULL,
	created_at BIGINT NOT NULL
)`

// PostgresStore persists commitments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed commitment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, hash naming.CommitmentHash) (naming.Commitment, error) {
	var (
		c         naming.Commitment
		depositor string
		owner     string
		deposit   int64
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT depositor, owner, deposit, created_at FROM name_commitments WHERE hash = $1`,
		hash.String(),
	).Scan(&depositor, &owner, &deposit, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return naming.Commitment{}, sentinel.ErrNotFound
		}
		return naming.Commitment{}, fmt.Errorf("get commitment: %w", err)
	}
	c.Hash = hash
	c.Depositor = naming.AccountID(depositor)
	c.Owner = naming.AccountID(owner)
	c.Deposit = naming.Balance(deposit)
	c.CreatedAt = naming.BlockNumber(createdAt)
	return c, nil
}

func (s *PostgresStore) Put(ctx context.Context, c naming.Commitment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO name_commitments (hash, depositor, owner, deposit, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hash) DO UPDATE SET
			depositor  = EXCLUDED.depositor,
			owner      = EXCLUDED.owner,
			deposit    = EXCLUDED.deposit,
			created_at = EXCLUDED.created_at
	`, c.Hash.String(), string(c.Depositor), string(c.Owner), int64(c.Deposit), int64(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("put commitment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, hash naming.CommitmentHash) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM name_commitments WHERE hash = $1`, hash.String())
	if err != nil {
		return fmt.Errorf("delete commitment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete commitment: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]naming.Commitment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, depositor, owner, deposit, created_at FROM name_commitments`)
	if err != nil {
		return nil, fmt.Errorf("list commitments: %w", err)
	}
	defer rows.Close()

	var out []naming.Commitment
	for rows.Next() {
		var (
			hash      string
			depositor string
			owner     string
			deposit   int64
			createdAt int64
		)
		if err := rows.Scan(&hash, &depositor, &owner, &deposit, &createdAt); err != nil {
			return nil, fmt.Errorf("scan commitment: %w", err)
		}
		parsed, err := naming.ParseCommitmentHash(hash)
		if err != nil {
			return nil, fmt.Errorf("scan commitment: %w", err)
		}
		out = append(out, naming.Commitment{
			Hash:      parsed,
			Depositor: naming.AccountID(depositor),
			Owner:     naming.AccountID(owner),
			Deposit:   naming.Balance(deposit),
			CreatedAt: naming.BlockNumber(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list commitments: %w", err)
	}
	return out, nil
}
