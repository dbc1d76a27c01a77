package invitation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemable(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		inv     Invitation
		wantErr error
	}{
		{
			"pending and in date",
			Invitation{Status: StatusPending, ExpiresAt: now.Add(time.Hour)},
			nil,
		},
		{
			"expired",
			Invitation{Status: StatusPending, ExpiresAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			ErrExpired,
		},
		{
			"already consumed",
			Invitation{Status: StatusConsumed, ExpiresAt: now.Add(time.Hour)},
			ErrAlreadyConsumed,
		},
		{
			"consumed wins over expiry",
			Invitation{Status: StatusConsumed, ExpiresAt: now.Add(-time.Hour)},
			ErrAlreadyConsumed,
		},
		{
			"cancelled looks like not found",
			Invitation{Status: StatusCancelled, ExpiresAt: now.Add(time.Hour)},
			ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.inv.Redeemable(now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// memoryInvitations implements the conditional-transition contract of
// InvitationRepository.Consume in memory, standing in for the database's
// atomic UPDATE ... WHERE status = 'pending'.
type memoryInvitations struct {
	mu   sync.Mutex
	rows map[string]*Invitation
}

func newMemoryInvitations() *memoryInvitations {
	return &memoryInvitations{rows: make(map[string]*Invitation)}
}

func (m *memoryInvitations) add(inv *Invitation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[inv.Token] = inv
}

func (m *memoryInvitations) Consume(token string, now time.Time) (*Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.rows[token]
	if !ok {
		return nil, ErrNotFound
	}
	if err := inv.Redeemable(now); err != nil {
		return nil, err
	}
	// Transition only if still pending; this is the RowsAffected check.
	if inv.Status != StatusPending {
		return nil, ErrAlreadyConsumed
	}
	inv.Status = StatusConsumed
	inv.ConsumedAt = &now
	out := *inv
	return &out, nil
}

func TestConsume_ExactlyOneWinnerUnderConcurrency(t *testing.T) {
	store := newMemoryInvitations()
	store.add(&Invitation{
		Token:     "tok-456",
		Email:     "player@example.com",
		TeamID:    7,
		Status:    StatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	const attempts = 32
	now := time.Now()

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Consume("tok-456", now)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, ErrAlreadyConsumed)
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one consumer may win")
	assert.Equal(t, attempts-1, losses)
}

func TestConsume_TerminalStatesAreSticky(t *testing.T) {
	store := newMemoryInvitations()
	store.add(&Invitation{
		Token:     "tok-123",
		Status:    StatusPending,
		ExpiresAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	// Attempt after expiry fails Expired, deterministically on every retry.
	late := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Consume("tok-123", late)
		assert.ErrorIs(t, err, ErrExpired)
	}

	_, err := store.Consume("no-such-token", late)
	assert.ErrorIs(t, err, ErrNotFound)
}
