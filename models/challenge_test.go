package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsParticipant(t *testing.T) {
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	ch := &Challenge{
		Participants: []Participant{
			{UserID: primitive.NewObjectID(), Status: ParticipantActive},
			{UserID: member, Status: ParticipantActive},
		},
	}

	assert.True(t, ch.IsParticipant(member))
	assert.False(t, ch.IsParticipant(outsider))

	empty := &Challenge{}
	assert.False(t, empty.IsParticipant(member))
}
