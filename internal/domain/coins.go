package domain

import "time"

// CoinPackage is a purchasable coin bundle. Purchases are simulated
// credits; no payment gateway is involved.
type CoinPackage struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Coins    int64  `db:"coins" json:"coins"`
	PriceCts int64  `db:"price_cents" json:"price_cents"`
	Currency string `db:"currency" json:"currency"`
	Active   bool   `db:"active" json:"active"`
}

type CoinOrder struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PackageID int64     `db:"package_id" json:"package_id"`
	Coins     int64     `db:"coins" json:"coins"`
	PriceCts  int64     `db:"price_cents" json:"price_cents"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
