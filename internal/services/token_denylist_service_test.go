package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDenylistRoundTrip(t *testing.T) {
	mr := setupTestRedis()
	defer mr.Close()

	denied, err := IsDenylisted("token-a")
	assert.NoError(t, err)
	assert.False(t, denied)

	assert.NoError(t, AddToDenylist("token-a", time.Hour))

	denied, err = IsDenylisted("token-a")
	assert.NoError(t, err)
	assert.True(t, denied)

	// Other tokens are unaffected.
	denied, err = IsDenylisted("token-b")
	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestDenylistEntryExpires(t *testing.T) {
	mr := setupTestRedis()
	defer mr.Close()

	assert.NoError(t, AddToDenylist("token-exp", time.Minute))
	mr.FastForward(2 * time.Minute)

	denied, err := IsDenylisted("token-exp")
	assert.NoError(t, err)
	assert.False(t, denied)
}
