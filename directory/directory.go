// Package directory owns the username → password table. The whole table
// lives in one serialized record, so every mutation is a read-modify-write
// of that record.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kunori-kiku/textholder/kv"
)

const userListKey = "userList"

const casAttempts = 3

type Directory struct {
	store kv.Store
}

func New(store kv.Store) *Directory {
	return &Directory{store: store}
}

func (d *Directory) load(ctx context.Context) ([]byte, map[string]string, error) {
	raw, err := d.store.Get(ctx, userListKey)
	if errors.Is(err, kv.ErrNotFound) {
		// an absent record is just an empty directory
		return nil, map[string]string{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("directory: load: could not read user list: %w", err)
	}

	users := map[string]string{}
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, nil, fmt.Errorf("directory: load: could not decode user list: %w", err)
	}

	return raw, users, nil
}

func (d *Directory) mutate(ctx context.Context, op string, apply func(users map[string]string)) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		raw, users, err := d.load(ctx)
		if err != nil {
			return err
		}

		apply(users)

		next, err := json.Marshal(users)
		if err != nil {
			return fmt.Errorf("directory: %s: could not encode user list: %w", op, err)
		}

		swapped, err := d.store.CompareAndSwap(ctx, userListKey, raw, next)
		if err != nil {
			return fmt.Errorf("directory: %s: could not write user list: %w", op, err)
		}
		if swapped {
			return nil
		}
	}

	return fmt.Errorf("directory: %s: user list is contested, giving up", op)
}

// Lookup returns the stored password for username and whether the user
// exists at all.
func (d *Directory) Lookup(ctx context.Context, username string) (string, bool, error) {
	_, users, err := d.load(ctx)
	if err != nil {
		return "", false, err
	}

	password, found := users[username]

	return password, found, nil
}

// Upsert inserts or replaces the password for username.
func (d *Directory) Upsert(ctx context.Context, username string, password string) error {
	err := d.mutate(ctx, "Upsert", func(users map[string]string) {
		users[username] = password
	})
	if err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("stored user")

	return nil
}

// Remove deletes username from the directory. Removing an unknown user is a
// no-op, not an error.
func (d *Directory) Remove(ctx context.Context, username string) error {
	err := d.mutate(ctx, "Remove", func(users map[string]string) {
		delete(users, username)
	})
	if err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("removed user")

	return nil
}

// Usernames returns every known username in no particular order.
func (d *Directory) Usernames(ctx context.Context) ([]string, error) {
	_, users, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	usernames := make([]string, 0, len(users))
	for username := range users {
		usernames = append(usernames, username)
	}

	return usernames, nil
}
