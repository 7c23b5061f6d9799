package handlers

import (
	"testing"

	"fitstake/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildDirectMessageDefaultsToText(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()

	msg, errs := buildDirectMessage(sender, receiver, DirectMessageInput{Content: "hi"}, 1700000000)
	require.Nil(t, errs)

	assert.Equal(t, models.KindText, msg.Kind)
	assert.Equal(t, sender, msg.SenderID)
	assert.Equal(t, receiver, msg.ReceiverID)
	assert.Equal(t, "hi", msg.Content)
	assert.Nil(t, msg.Verification)
	assert.False(t, msg.IsRead)
	assert.Equal(t, int64(1700000000), msg.Timestamp)
}

func TestBuildDirectMessageVerificationCarriesPayload(t *testing.T) {
	in := DirectMessageInput{
		Content: "Daily verification uploaded",
		Kind:    models.KindVerification,
	}
	in.Verification = &struct {
		VideoURL string `json:"videoUrl" binding:"required"`
	}{VideoURL: "/uploads/verifications/video-1.mp4"}

	msg, errs := buildDirectMessage(primitive.NewObjectID(), primitive.NewObjectID(), in, 1700000000)
	require.Nil(t, errs)

	require.NotNil(t, msg.Verification)
	assert.Equal(t, "/uploads/verifications/video-1.mp4", msg.Verification.VideoURL)
	assert.Equal(t, int64(1700000000), msg.Verification.Timestamp)
}

func TestBuildDirectMessageVerificationRequiresPayload(t *testing.T) {
	_, errs := buildDirectMessage(primitive.NewObjectID(), primitive.NewObjectID(), DirectMessageInput{
		Content: "Daily verification uploaded",
		Kind:    models.KindVerification,
	}, 1700000000)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "verification")
}

func TestBuildDirectMessageTextRejectsPayload(t *testing.T) {
	in := DirectMessageInput{Content: "hi", Kind: models.KindText}
	in.Verification = &struct {
		VideoURL string `json:"videoUrl" binding:"required"`
	}{VideoURL: "/uploads/verifications/video-1.mp4"}

	_, errs := buildDirectMessage(primitive.NewObjectID(), primitive.NewObjectID(), in, 1700000000)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "verification")
}

func TestBuildDirectMessageUnknownKind(t *testing.T) {
	_, errs := buildDirectMessage(primitive.NewObjectID(), primitive.NewObjectID(), DirectMessageInput{
		Content: "hi",
		Kind:    "voice",
	}, 1700000000)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "kind")
}

func TestPairFilterSymmetric(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	ab, ok := pairFilter(a, b)["$or"].([]bson.M)
	require.True(t, ok)
	ba, ok := pairFilter(b, a)["$or"].([]bson.M)
	require.True(t, ok)

	// Both directions match the same two clauses, so A and B fetch the same
	// history.
	for _, clause := range ab {
		assert.Contains(t, ba, clause)
	}
	assert.Len(t, ab, 2)
	assert.Len(t, ba, 2)
}
