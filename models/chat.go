package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatMessage is a message scoped to one challenge's chat room. Append-only.
type ChatMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChallengeID primitive.ObjectID `bson:"challengeId" json:"challengeId"`
	SenderID    primitive.ObjectID `bson:"senderId" json:"senderId"`
	Message     string             `bson:"message" json:"message"`
	Timestamp   int64              `bson:"timestamp" json:"timestamp"`
}
