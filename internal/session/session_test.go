package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinkling/kashflow/internal/parser"
)

func intentFor(desc string) parser.Intent {
	return parser.Intent{
		Type:        parser.IntentExpense,
		Amount:      decimal.NewFromInt(1000),
		Account:     "banco",
		Description: desc,
		Valid:       true,
	}
}

func TestStore_PutPeekPop(t *testing.T) {
	s := NewStore(DefaultTTL)

	_, ok := s.Peek(7)
	assert.False(t, ok)

	s.Put(7, intentFor("almuerzo"))

	got, ok := s.Peek(7)
	require.True(t, ok)
	assert.Equal(t, "almuerzo", got.Description)

	// Peek does not consume.
	got, ok = s.Pop(7)
	require.True(t, ok)
	assert.Equal(t, "almuerzo", got.Description)

	// Pop does.
	_, ok = s.Pop(7)
	assert.False(t, ok)
}

func TestStore_ChatsAreIndependent(t *testing.T) {
	s := NewStore(DefaultTTL)
	s.Put(1, intentFor("uno"))
	s.Put(2, intentFor("dos"))

	got, ok := s.Pop(1)
	require.True(t, ok)
	assert.Equal(t, "uno", got.Description)

	got, ok = s.Pop(2)
	require.True(t, ok)
	assert.Equal(t, "dos", got.Description)
}

func TestStore_PutOverwrites(t *testing.T) {
	s := NewStore(DefaultTTL)
	s.Put(7, intentFor("vieja"))
	s.Put(7, intentFor("nueva"))

	got, ok := s.Pop(7)
	require.True(t, ok)
	assert.Equal(t, "nueva", got.Description)

	_, ok = s.Pop(7)
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(time.Minute)

	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Put(7, intentFor("por vencer"))

	current = current.Add(59 * time.Second)
	_, ok := s.Peek(7)
	assert.True(t, ok, "still inside the ttl")

	current = current.Add(2 * time.Second)
	_, ok = s.Peek(7)
	assert.False(t, ok, "past the ttl")

	// Expired slots are gone for Pop too.
	_, ok = s.Pop(7)
	assert.False(t, ok)
}

func TestStore_PopExpired(t *testing.T) {
	s := NewStore(time.Minute)

	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Put(7, intentFor("vencida"))
	current = current.Add(2 * time.Minute)

	_, ok := s.Pop(7)
	assert.False(t, ok)
}

func TestNewStore_TTLFallback(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, DefaultTTL, s.ttl)

	s = NewStore(-time.Second)
	assert.Equal(t, DefaultTTL, s.ttl)
}
