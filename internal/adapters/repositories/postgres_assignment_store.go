package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales-route-service/internal/domain"
)

// Postgres-backed implementation of the AssignmentStore port. Read-only:
// assignment lifecycle is owned by the assignment-management service, which
// is expected to call the route cache invalidation hook on every change.
type PostgresAssignmentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAssignmentStore(pool *pgxpool.Pool) *PostgresAssignmentStore {
	return &PostgresAssignmentStore{pool: pool}
}

func (s *PostgresAssignmentStore) SellerName(ctx context.Context, sellerID int64) (string, error) {
	const query = `
	SELECT name
	FROM sellers
	WHERE id = $1 AND is_active = TRUE;
	`

	var name string
	err := s.pool.QueryRow(ctx, query, sellerID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("seller %d: %w", sellerID, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("seller name: query seller %d: %w", sellerID, err)
	}
	return name, nil
}

// ListActiveStops returns the seller's active shopkeepers ordered by
// assignment recency. Historical (inactive) assignments are excluded.
func (s *PostgresAssignmentStore) ListActiveStops(ctx context.Context, sellerID int64) ([]domain.Stop, error) {
	const query = `
	SELECT
		sk.id,
		sk.name,
		COALESCE(sk.business_name, ''),
		sk.address,
		sk.latitude,
		sk.longitude
	FROM assignments a
	JOIN shopkeepers sk ON sk.id = a.shopkeeper_id
	WHERE a.seller_id = $1
	  AND a.is_active = TRUE
	  AND sk.is_active = TRUE
	ORDER BY a.assigned_at, a.id;
	`

	rows, err := s.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list active stops: query assignments for seller %d: %w", sellerID, err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 32)
	for rows.Next() {
		var st domain.Stop
		err := rows.Scan(
			&st.ShopkeeperID,
			&st.Name,
			&st.BusinessName,
			&st.Address,
			&st.Location.Lat,
			&st.Location.Lon,
		)
		if err != nil {
			return nil, fmt.Errorf("list active stops: scan row: %w", err)
		}
		stops = append(stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active stops: row iteration: %w", err)
	}
	return stops, nil
}

func (s *PostgresAssignmentStore) SellerForShopkeeper(ctx context.Context, shopkeeperID int64) (int64, error) {
	const query = `
	SELECT a.seller_id
	FROM assignments a
	JOIN shopkeepers sk ON sk.id = a.shopkeeper_id
	WHERE a.shopkeeper_id = $1
	  AND a.is_active = TRUE
	  AND sk.is_active = TRUE
	LIMIT 1;
	`

	var sellerID int64
	err := s.pool.QueryRow(ctx, query, shopkeeperID).Scan(&sellerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("shopkeeper %d has no active assignment: %w", shopkeeperID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("seller for shopkeeper %d: %w", shopkeeperID, err)
	}
	return sellerID, nil
}
