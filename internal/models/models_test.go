package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatPairKeyIsOrderIndependent(t *testing.T) {
	h1, l1 := ChatPairKey(3, 7)
	h2, l2 := ChatPairKey(7, 3)
	assert.Equal(t, uint(7), h1)
	assert.Equal(t, uint(3), l1)
	assert.Equal(t, h1, h2)
	assert.Equal(t, l1, l2)
}

func TestChatBeforeCreateFillsPair(t *testing.T) {
	c := &Chat{User1ID: 2, User2ID: 9}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, uint(9), c.PairHigh)
	assert.Equal(t, uint(2), c.PairLow)
}

func TestChatCompanion(t *testing.T) {
	alice := &User{BaseModel: BaseModel{ID: 1}, FirstName: "Alice"}
	bob := &User{BaseModel: BaseModel{ID: 2}, FirstName: "Bob"}
	c := &Chat{User1ID: 1, User1: alice, User2ID: 2, User2: bob}

	assert.True(t, c.HasParticipant(1))
	assert.True(t, c.HasParticipant(2))
	assert.False(t, c.HasParticipant(3))
	assert.Equal(t, uint(2), c.CompanionID(1))
	assert.Equal(t, uint(1), c.CompanionID(2))
	assert.Same(t, bob, c.Companion(1))
	assert.Same(t, alice, c.Companion(2))
}

func TestNewFriendshipCanonicalOrder(t *testing.T) {
	f := NewFriendship(10, 4)
	assert.Equal(t, uint(4), f.UserID1)
	assert.Equal(t, uint(10), f.UserID2)
	assert.Equal(t, uint(10), f.Other(4))
	assert.Equal(t, uint(4), f.Other(10))
}

func TestReactionValueValid(t *testing.T) {
	for _, v := range ReactionValues {
		assert.True(t, v.Valid(), string(v))
	}
	assert.False(t, ReactionValue("angry").Valid())
	assert.False(t, ReactionValue("").Valid())
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "ada", (&User{Username: "ada"}).DisplayName())
}
