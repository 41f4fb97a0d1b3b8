package pricebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "pricebook:config"

// Store persists the pricing catalog in Redis as a single JSON document.
// A missing key yields the seeded default catalog rather than an error.
type Store struct {
	Client *redis.Client
	Key    string
}

// Load fetches the catalog, falling back to Default when none was saved yet.
func (s *Store) Load(ctx context.Context) (Pricebook, error) {
	if s == nil || s.Client == nil {
		return Pricebook{}, errors.New("pricebook: store not configured")
	}
	data, err := s.Client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Default(), nil
		}
		return Pricebook{}, fmt.Errorf("pricebook: load: %w", err)
	}
	var book Pricebook
	if err := json.Unmarshal(data, &book); err != nil {
		return Pricebook{}, fmt.Errorf("pricebook: decode: %w", err)
	}
	if book.Materials == nil {
		book.Materials = map[string]Material{}
	}
	return book, nil
}

// Exists reports whether a catalog has ever been saved. Load cannot answer
// this because it substitutes the default catalog for a missing key.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	if s == nil || s.Client == nil {
		return false, errors.New("pricebook: store not configured")
	}
	n, err := s.Client.Exists(ctx, s.key()).Result()
	if err != nil {
		return false, fmt.Errorf("pricebook: exists: %w", err)
	}
	return n > 0, nil
}

// Save stores the catalog without expiry.
func (s *Store) Save(ctx context.Context, book Pricebook) error {
	if s == nil || s.Client == nil {
		return errors.New("pricebook: store not configured")
	}
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("pricebook: encode: %w", err)
	}
	if err := s.Client.Set(ctx, s.key(), data, 0).Err(); err != nil {
		return fmt.Errorf("pricebook: save: %w", err)
	}
	return nil
}

func (s *Store) key() string {
	if s.Key == "" {
		return defaultKey
	}
	return s.Key
}
