package repository

import (
	"context"
	"errors"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoinPackageRepository struct {
	db *pgxpool.Pool
}

func NewCoinPackageRepository(db *pgxpool.Pool) *CoinPackageRepository {
	return &CoinPackageRepository{db: db}
}

func (r *CoinPackageRepository) ListActive(ctx context.Context) ([]*domain.CoinPackage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, coins, price_cents, currency, active
		FROM coin_packages
		WHERE active = TRUE
		ORDER BY price_cents ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.CoinPackage
	for rows.Next() {
		var p domain.CoinPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Coins, &p.PriceCts, &p.Currency, &p.Active); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// GetActiveTx resolves a purchasable package inside the purchase
// transaction; inactive packages are ErrNotFound.
func (r *CoinPackageRepository) GetActiveTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.CoinPackage, error) {
	var p domain.CoinPackage
	err := tx.QueryRow(ctx, `
		SELECT id, name, coins, price_cents, currency, active
		FROM coin_packages
		WHERE id = $1 AND active = TRUE
	`, id).Scan(&p.ID, &p.Name, &p.Coins, &p.PriceCts, &p.Currency, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *CoinPackageRepository) CreateOrderTx(ctx context.Context, tx pgx.Tx, o *domain.CoinOrder) error {
	return tx.QueryRow(ctx, `
		INSERT INTO coin_orders (user_id, package_id, coins, price_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, o.UserID, o.PackageID, o.Coins, o.PriceCts, o.Status).Scan(&o.ID, &o.CreatedAt)
}
