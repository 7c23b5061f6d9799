package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ChallengeActive    = "active"
	ChallengeCompleted = "completed"
	ChallengeCancelled = "cancelled"

	ParticipantActive    = "active"
	ParticipantCompleted = "completed"
	ParticipantFailed    = "failed"
)

// ExerciseTypes are the only accepted values for Challenge.ExerciseType.
var ExerciseTypes = []string{"pushups", "squats", "situps", "pullups"}

// DurationUnits are the only accepted values for Challenge.DurationUnit.
var DurationUnits = []string{"days", "weeks"}

type Challenge struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	ExerciseType   string             `bson:"exerciseType" json:"exerciseType"` // pushups, squats, situps, pullups
	ExerciseCount  int                `bson:"exerciseCount" json:"exerciseCount"`
	OriginalBet    float64            `bson:"originalBet" json:"originalBet"`
	Duration       int                `bson:"duration" json:"duration"`
	DurationUnit   string             `bson:"durationUnit" json:"durationUnit"` // days, weeks
	FirstRaiseTime int                `bson:"firstRaiseTime,omitempty" json:"firstRaiseTime,omitempty"`
	CreatedBy      primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Status         string             `bson:"status" json:"status"` // active, completed, cancelled
	CreatedAt      int64              `bson:"createdAt" json:"createdAt"`
	Participants   []Participant      `bson:"participants" json:"participants"`
	Verifications  []Verification     `bson:"verifications,omitempty" json:"verifications,omitempty"`
}

type Participant struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	JoinedAt int64              `bson:"joinedAt" json:"joinedAt"`
	Status   string             `bson:"status" json:"status"` // active, completed, failed
}

// Verification is an append-only proof-of-compliance entry. Entries are never
// mutated or removed once pushed.
type Verification struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	VideoURL  string             `bson:"videoUrl" json:"videoUrl"`
	Timestamp int64              `bson:"timestamp" json:"timestamp"`
}

// IsParticipant reports whether userID is on the roster.
func (ch *Challenge) IsParticipant(userID primitive.ObjectID) bool {
	for _, p := range ch.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
