package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PushTokenStore struct {
	db *pgxpool.Pool
}

// Upsert registers a device token for a client, refreshing the device info
// and timestamp when the pair already exists.
func (s *PushTokenStore) Upsert(ctx context.Context, clientID int64, token string, deviceInfo json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO client_push_tokens (client_id, expo_push_token, device_info, last_updated)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_id, expo_push_token)
		DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW()
	`

	_, err := s.db.Exec(ctx, query, clientID, token, deviceInfo)
	return err
}

// Remove drops one device token for a client, typically on logout.
func (s *PushTokenStore) Remove(ctx context.Context, clientID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `DELETE FROM client_push_tokens WHERE client_id = $1 AND expo_push_token = $2`
	_, err := s.db.Exec(ctx, query, clientID, token)
	return err
}

// GetByClient returns every registered device token for a client.
func (s *PushTokenStore) GetByClient(ctx context.Context, clientID int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT expo_push_token FROM client_push_tokens WHERE client_id = $1`
	rows, err := s.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
