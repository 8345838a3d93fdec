package service

import (
	"context"
	"encoding/hex"
	"sync"

	"spend-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"
)

// AuditSink implements ports.EventSink. Each emitted event is logged with a
// blake2b hash chained over all previous events, so an external indexer can
// detect gaps or reordering in the event stream. Emission never fails.
type AuditSink struct {
	log zerolog.Logger

	mu   sync.Mutex
	head [blake2b.Size256]byte
	seq  uint64
}

// NewAuditSink creates an AuditSink with a zero chain head.
func NewAuditSink(log zerolog.Logger) *AuditSink {
	return &AuditSink{log: log}
}

// Emit folds the event into the hash chain and logs it.
func (s *AuditSink) Emit(_ context.Context, ev domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, _ := blake2b.New256(nil)
	h.Write(s.head[:])
	h.Write([]byte(ev.Action))
	h.Write([]byte{0})
	for _, attr := range ev.Attributes {
		h.Write([]byte(attr.Key))
		h.Write([]byte{0})
		h.Write([]byte(attr.Value))
		h.Write([]byte{0})
	}
	copy(s.head[:], h.Sum(nil))
	s.seq++

	entry := zerolog.Dict()
	for _, attr := range ev.Attributes {
		entry = entry.Str(attr.Key, attr.Value)
	}

	s.log.Info().
		Str("event_id", uuid.New().String()).
		Uint64("seq", s.seq).
		Str("action", ev.Action).
		Dict("attributes", entry).
		Str("chain_hash", hex.EncodeToString(s.head[:])).
		Msg("ledger event")
}

// Head returns the current chain head as a hex string.
func (s *AuditSink) Head() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hex.EncodeToString(s.head[:])
}

// Seq returns the number of events emitted so far.
func (s *AuditSink) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
