package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCheckOwner(t *testing.T) {
	owner := primitive.NewObjectID()

	assert.NoError(t, CheckOwner(owner, owner.Hex()))
	assert.ErrorIs(t, CheckOwner(owner, primitive.NewObjectID().Hex()), ErrForbidden)
	assert.ErrorIs(t, CheckOwner(owner, ""), ErrForbidden)
	// The canonical form is lower-case hex; anything else must not match.
	assert.ErrorIs(t, CheckOwner(owner, "ObjectID(\""+owner.Hex()+"\")"), ErrForbidden)
}

func TestFollowPair(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	f1, f2, err := followPair(a.Hex(), b.Hex())
	require.NoError(t, err)
	assert.Equal(t, a, f1)
	assert.Equal(t, b, f2)

	_, _, err = followPair(a.Hex(), a.Hex())
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, _, err = followPair("garbage", b.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
