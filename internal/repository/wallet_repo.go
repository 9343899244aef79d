package repository

import (
	"context"
	"errors"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByUserID retrieves a wallet outside any transaction (read endpoints).
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, balance, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID)

	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// GetForUpdate locks the wallet row for the duration of tx. Every balance
// read that a mutation depends on must go through this lock.
func (r *WalletRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Wallet, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, user_id, balance, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID)

	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// CreateTx creates an empty wallet for a user inside tx.
func (r *WalletRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Wallet, error) {
	var w domain.Wallet
	err := tx.QueryRow(ctx, `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		RETURNING id, user_id, balance, updated_at
	`, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ApplyMovement changes the balance by the signed amount and appends the
// matching movement row, all inside the caller's transaction. The
// sufficiency check is part of the UPDATE predicate, so a concurrent debit
// can never observe a stale balance; a debit that would go negative returns
// ErrInsufficientFunds and writes nothing.
func (r *WalletRepository) ApplyMovement(ctx context.Context, tx pgx.Tx, walletID int64, amount int64, mvType, refType string, refID int64) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx, `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance
	`, amount, walletID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			_ = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`, walletID).Scan(&exists)
			if !exists {
				return 0, ErrNotFound
			}
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_movements (wallet_id, type, amount, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, $5)
	`, walletID, mvType, amount, refType, refID)
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

// Movements returns recent ledger entries for a wallet, newest first.
func (r *WalletRepository) Movements(ctx context.Context, walletID int64, limit int) ([]*domain.WalletMovement, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, wallet_id, type, amount, ref_type, ref_id, created_at
		FROM wallet_movements
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.WalletMovement
	for rows.Next() {
		var m domain.WalletMovement
		if err := rows.Scan(&m.ID, &m.WalletID, &m.Type, &m.Amount, &m.RefType, &m.RefID, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}
