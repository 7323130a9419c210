package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreCreatesAndDropsSessions(t *testing.T) {
	s := NewStore()
	assert.False(t, s.InProgress(7))
	assert.Equal(t, 0, s.Len())

	s.Dispatch(7, func(sess *Session) {
		assert.Equal(t, StateIdle, sess.State)
		sess.State = StateSelectingItem
	})
	assert.True(t, s.InProgress(7))
	assert.Equal(t, StateSelectingItem, s.State(7))
	assert.Equal(t, 1, s.Len())

	// Returning to idle removes the session from the store.
	s.Dispatch(7, func(sess *Session) {
		sess.State = StateIdle
	})
	assert.False(t, s.InProgress(7))
	assert.Equal(t, 0, s.Len())
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Dispatch(1, func(sess *Session) { sess.State = StateEnteringQuantity })
	s.Dispatch(2, func(sess *Session) { sess.State = StateAwaitingReceipt })

	assert.Equal(t, StateEnteringQuantity, s.State(1))
	assert.Equal(t, StateAwaitingReceipt, s.State(2))
	assert.Equal(t, StateIdle, s.State(3))
	assert.Equal(t, 2, s.Len())
}

func TestStoreDispatchLeavesNoIdleResidue(t *testing.T) {
	s := NewStore()
	// A transition that never leaves idle must not leak a session.
	s.Dispatch(9, func(sess *Session) {})
	assert.Equal(t, 0, s.Len())
}
