package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	KindText         = "text"
	KindVerification = "verification"
)

// DirectMessage is a message between a user pair, retrievable by either side.
// Append-only; only the isRead flag is ever mutated, through the explicit
// mark-read operation.
type DirectMessage struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	SenderID     primitive.ObjectID   `bson:"senderId" json:"senderId"`
	ReceiverID   primitive.ObjectID   `bson:"receiverId" json:"receiverId"`
	Content      string               `bson:"content" json:"content"`
	Kind         string               `bson:"kind" json:"kind"` // text, verification
	Verification *VerificationPayload `bson:"verification,omitempty" json:"verification,omitempty"`
	IsRead       bool                 `bson:"isRead" json:"isRead"`
	Timestamp    int64                `bson:"timestamp" json:"timestamp"`
}

// VerificationPayload is the media reference carried by a kind=verification
// message.
type VerificationPayload struct {
	VideoURL  string `bson:"videoUrl" json:"videoUrl"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
