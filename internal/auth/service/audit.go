package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
)

// GenesisHash seeds the audit chain: the PrevHash of the very first entry.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// verifyBatchSize bounds how many entries a chain walk loads at once.
const verifyBatchSize = 500

// Query pagination bounds.
const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// AuditService owns the tamper-evident audit log. Every entry is hashed over
// its canonical form chained to its predecessor's hash, so appends must be
// serialized: the mutex plus a tail read inside the insert transaction
// guarantee each entry extends the real tail.
type AuditService struct {
	Store store.Store

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time

	mu sync.Mutex
}

// Append writes one entry to the end of the chain and returns it with its ID
// and hashes filled in. A zero Timestamp is stamped with the current time;
// empty Details are stored as an empty JSON object so hashing and storage
// agree on the exact bytes.
func (s *AuditService) Append(ctx context.Context, e domain.AuditEntry) (domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	e.Timestamp = e.Timestamp.UTC()
	if len(e.Details) == 0 {
		e.Details = json.RawMessage(`{}`)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Read the current tail. The first entry chains to the genesis hash.
		prev := GenesisHash
		tail, err := tx.AuditLog().GetLastAuditEntry(ctx)
		switch {
		case err == nil:
			prev = tail.EntryHash
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("failed to read audit tail: %w", err)
		}

		// 2. Hash and insert.
		e.PrevHash = prev
		e.EntryHash = computeEntryHash(prev, e)

		id, err := tx.AuditLog().AppendAuditEntry(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		e.ID = id
		return nil
	})
	if err != nil {
		return domain.AuditEntry{}, err
	}

	metrics.AuditEntriesAppended.WithLabelValues(e.Action).Inc()
	return e, nil
}

// Record is the convenience most call sites want: it builds an entry from the
// parts, marshals details, and appends it. An empty actorID records an
// unauthenticated actor.
func (s *AuditService) Record(ctx context.Context, actorID, action, entityType, entityID, ip string, details map[string]any) error {
	var payload json.RawMessage
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
		payload = b
	}

	_, err := s.Append(ctx, domain.AuditEntry{
		ActorUserID: actor(actorID),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     payload,
		IP:          ip,
	})
	return err
}

// VerifyChain walks entries fromID..toID in order, recomputing every hash and
// checking each entry links to its predecessor. Bounds at or below zero mean
// "from the first entry" and "to the tail". It reports the first entry ID at
// which verification fails; a chain with no entries in range verifies as
// valid with zero checked.
func (s *AuditService) VerifyChain(ctx context.Context, fromID, toID int64) (domain.ChainVerification, error) {
	if fromID < 1 {
		fromID = 1
	}
	if toID < 1 {
		tail, err := s.Store.AuditLog().GetLastAuditEntry(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return domain.ChainVerification{Valid: true}, nil
		}
		if err != nil {
			return domain.ChainVerification{}, fmt.Errorf("failed to read audit tail: %w", err)
		}
		toID = tail.ID
	}

	// Seed the expected predecessor hash. Starting past the first entry means
	// chaining off the nearest surviving entry below the range.
	prev := GenesisHash
	if fromID > 1 {
		before, err := s.Store.AuditLog().GetAuditEntryBefore(ctx, fromID)
		switch {
		case err == nil:
			prev = before.EntryHash
		case !errors.Is(err, store.ErrNotFound):
			return domain.ChainVerification{}, fmt.Errorf("failed to seed chain verification: %w", err)
		}
	}

	result := domain.ChainVerification{Valid: true}
	for next := fromID; next <= toID; next += verifyBatchSize {
		hi := next + verifyBatchSize - 1
		if hi > toID {
			hi = toID
		}

		entries, err := s.Store.AuditLog().ListAuditRange(ctx, next, hi)
		if err != nil {
			return domain.ChainVerification{}, fmt.Errorf("failed to list audit range: %w", err)
		}

		for _, e := range entries {
			if e.PrevHash != prev || computeEntryHash(prev, e) != e.EntryHash {
				result.Valid = false
				result.FirstBrokenID = e.ID
				metrics.AuditChainVerifications.WithLabelValues("broken").Inc()
				return result, nil
			}
			prev = e.EntryHash
			result.Checked++
		}
	}

	metrics.AuditChainVerifications.WithLabelValues("valid").Inc()
	return result, nil
}

// Query returns a filtered page of entries, newest first. The returned page
// carries the clamped limit and offset so callers can report the values that
// were actually applied.
func (s *AuditService) Query(ctx context.Context, f domain.AuditFilter) (domain.AuditPage, error) {
	if f.Limit <= 0 {
		f.Limit = defaultQueryLimit
	}
	if f.Limit > maxQueryLimit {
		f.Limit = maxQueryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	entries, err := s.Store.AuditLog().ListAuditEntries(ctx, f)
	if err != nil {
		return domain.AuditPage{}, fmt.Errorf("failed to list audit entries: %w", err)
	}

	total, err := s.Store.AuditLog().CountAuditEntries(ctx, f)
	if err != nil {
		return domain.AuditPage{}, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return domain.AuditPage{Entries: entries, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *AuditService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// canonical flattens the hashed fields of an entry into a stable, newline
// separated form. The entry ID is excluded: it is assigned by storage and is
// not part of what the chain protects.
func canonical(e domain.AuditEntry) string {
	var actorID string
	if e.ActorUserID != nil {
		actorID = *e.ActorUserID
	}
	return strings.Join([]string{
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		actorID,
		e.Action,
		e.EntityType,
		e.EntityID,
		string(e.Details),
		e.IP,
	}, "\n")
}

func computeEntryHash(prevHash string, e domain.AuditEntry) string {
	sum := sha256.Sum256([]byte(prevHash + "\n" + canonical(e)))
	return hex.EncodeToString(sum[:])
}

// actor converts an actor user ID to its nullable stored form.
func actor(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
