// Package failban tracks consecutive authentication failures per caller IP
// and suspends callers that cross the failure limit for a fixed ban window.
// Each purpose gets its own key namespace in the store, so exhausting the
// login budget does not touch the super-token budget.
package failban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kunori-kiku/textholder/config"
	"github.com/kunori-kiku/textholder/durations"
	"github.com/kunori-kiku/textholder/kv"
)

const (
	PurposeLogin = "loginFail-"
	PurposeSuper = "superFail-"
)

// casAttempts bounds how often a read-modify-write retries after losing a
// race before falling back to a plain overwrite.
const casAttempts = 3

// Record is the stored failure state for one (purpose, IP) pair. The wire
// layout matches the original KV records, millisecond epoch and all.
type Record struct {
	LastFailedTime int64 `json:"lastFailedTime"`
	FailureCount   int   `json:"failureCount"`
}

// IPRecord pairs a Record with the IP it belongs to, as served by listFailIP.
type IPRecord struct {
	IP   string `json:"ip"`
	Data Record `json:"data"`
}

type Tracker struct {
	store kv.Store

	failLimit int
	banTime   time.Duration
}

func NewTracker(store kv.Store, failLimit int, banTime time.Duration) *Tracker {
	return &Tracker{
		store: store,

		failLimit: failLimit,
		banTime:   banTime,
	}
}

func NewTrackerFromConfig(store kv.Store) *Tracker {
	failLimit := viper.GetInt(config.KeyFailLimit)
	banTime := viper.GetDuration(config.KeyBanTime)

	// we do it this way so we don't mistakenly pollute the config file with our values
	if failLimit == 0 {
		failLimit = config.DefaultFailLimit
	}

	if banTime == 0 {
		banTime = config.DefaultBanTime
	}

	log.Info().Int("fail_limit", failLimit).Dur("ban_time", banTime).Msg("initializing failure tracker")

	return NewTracker(store, failLimit, banTime)
}

func (t *Tracker) getRecord(ctx context.Context, key string) ([]byte, *Record, error) {
	raw, err := t.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failban: getRecord: could not read %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil, fmt.Errorf("failban: getRecord: could not decode %s: %w", key, err)
	}

	return raw, &rec, nil
}

// IsBanned reports whether ip is currently suspended for purpose. If the ban
// window has elapsed, the check itself resets the counter; the first call
// after expiry reports "not banned" and starts the caller from zero. The
// check never counts as a failure.
func (t *Tracker) IsBanned(ctx context.Context, purpose string, ip string) (bool, error) {
	key := purpose + ip

	for attempt := 0; attempt < casAttempts; attempt++ {
		raw, rec, err := t.getRecord(ctx, key)
		if err != nil {
			return false, err
		}
		if rec == nil || rec.FailureCount < t.failLimit {
			return false, nil
		}

		remaining := t.banTime - time.Since(time.UnixMilli(rec.LastFailedTime))
		if remaining > 0 {
			log.Debug().Str("purpose", purpose).Str("ip", ip).Str("remaining", durations.NiceDuration(remaining)).Msg("request from banned ip")
			return true, nil
		}

		reset, err := json.Marshal(Record{LastFailedTime: time.Now().UnixMilli(), FailureCount: 0})
		if err != nil {
			return false, fmt.Errorf("failban: IsBanned: could not encode reset record: %w", err)
		}

		swapped, err := t.store.CompareAndSwap(ctx, key, raw, reset)
		if err != nil {
			return false, fmt.Errorf("failban: IsBanned: could not reset %s: %w", key, err)
		}
		if swapped {
			log.Info().Str("purpose", purpose).Str("ip", ip).Msg("ban window elapsed, counter reset")
			return false, nil
		}

		// lost a race against a concurrent failure or reset; re-read
	}

	// someone else is actively writing this record; treat the caller as not
	// banned and let their own record land
	log.Warn().Str("purpose", purpose).Str("ip", ip).Msg("gave up resetting contested failure record")
	return false, nil
}

// RecordFailure bumps the consecutive-failure counter for (purpose, ip),
// creating the record on first failure.
func (t *Tracker) RecordFailure(ctx context.Context, purpose string, ip string) error {
	key := purpose + ip

	for attempt := 0; attempt < casAttempts; attempt++ {
		raw, rec, err := t.getRecord(ctx, key)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = &Record{}
		}

		rec.FailureCount++
		rec.LastFailedTime = time.Now().UnixMilli()

		next, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failban: RecordFailure: could not encode record: %w", err)
		}

		swapped, err := t.store.CompareAndSwap(ctx, key, raw, next)
		if err != nil {
			return fmt.Errorf("failban: RecordFailure: could not write %s: %w", key, err)
		}
		if swapped {
			log.Info().Str("purpose", purpose).Str("ip", ip).Int("failure_count", rec.FailureCount).Msg("recorded authentication failure")
			return nil
		}
	}

	// contested record; accept the lost-update risk rather than spin forever
	_, rec, err := t.getRecord(ctx, key)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &Record{}
	}
	rec.FailureCount++
	rec.LastFailedTime = time.Now().UnixMilli()

	next, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failban: RecordFailure: could not encode record: %w", err)
	}

	log.Warn().Str("purpose", purpose).Str("ip", ip).Int("failure_count", rec.FailureCount).Msg("overwriting contested failure record")

	return t.store.Put(ctx, key, next)
}

// Failures returns every stored failure record for purpose along with its IP.
func (t *Tracker) Failures(ctx context.Context, purpose string) ([]IPRecord, error) {
	keys, err := t.store.List(ctx, purpose)
	if err != nil {
		return nil, fmt.Errorf("failban: Failures: could not list records: %w", err)
	}

	records := make([]IPRecord, 0, len(keys))
	for _, key := range keys {
		_, rec, err := t.getRecord(ctx, key)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			// deleted between list and read
			continue
		}

		records = append(records, IPRecord{
			IP:   key[len(purpose):],
			Data: *rec,
		})
	}

	return records, nil
}

// Clear deletes every failure record for purpose.
func (t *Tracker) Clear(ctx context.Context, purpose string) error {
	keys, err := t.store.List(ctx, purpose)
	if err != nil {
		return fmt.Errorf("failban: Clear: could not list records: %w", err)
	}

	for _, key := range keys {
		if err := t.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failban: Clear: could not delete %s: %w", key, err)
		}
	}

	log.Info().Str("purpose", purpose).Int("cleared", len(keys)).Msg("cleared failure records")

	return nil
}
