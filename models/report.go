package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportDismissed = "dismissed"

	// DefaultReportReason is used when a report carries no reason.
	DefaultReportReason = "Flagged for review"
)

type Report struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID     primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	ReportedUserID primitive.ObjectID `bson:"reportedUserId" json:"reportedUserId"`
	ChallengeID    primitive.ObjectID `bson:"challengeId,omitempty" json:"challengeId,omitempty"`
	VideoURL       string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Reason         string             `bson:"reason" json:"reason"`
	Status         string             `bson:"status" json:"status"` // pending, reviewed, dismissed
	CreatedAt      int64              `bson:"createdAt" json:"createdAt"`
}
