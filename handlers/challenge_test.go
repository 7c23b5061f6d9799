package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitstake/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validInput() ChallengeInput {
	return ChallengeInput{
		Name:          "30-day pushups",
		Description:   "100 pushups every day",
		ExerciseType:  "pushups",
		ExerciseCount: 100,
		OriginalBet:   50,
		Duration:      30,
		DurationUnit:  "days",
	}
}

func TestValidateChallengeInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ChallengeInput)
		wantField string
	}{
		{"valid", func(in *ChallengeInput) {}, ""},
		{"missing name", func(in *ChallengeInput) { in.Name = "" }, "name"},
		{"missing description", func(in *ChallengeInput) { in.Description = "" }, "description"},
		{"unknown exercise", func(in *ChallengeInput) { in.ExerciseType = "burpees" }, "exerciseType"},
		{"zero count", func(in *ChallengeInput) { in.ExerciseCount = 0 }, "exerciseCount"},
		{"zero bet", func(in *ChallengeInput) { in.OriginalBet = 0 }, "originalBet"},
		{"negative bet", func(in *ChallengeInput) { in.OriginalBet = -10 }, "originalBet"},
		{"zero duration", func(in *ChallengeInput) { in.Duration = 0 }, "duration"},
		{"bad unit", func(in *ChallengeInput) { in.DurationUnit = "months" }, "durationUnit"},
		{"raise too late", func(in *ChallengeInput) { in.FirstRaiseTime = 16 }, "firstRaiseTime"},
		{"negative raise", func(in *ChallengeInput) { in.FirstRaiseTime = -1 }, "firstRaiseTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			errs := validateChallengeInput(in)
			if tt.wantField == "" {
				assert.Nil(t, errs)
			} else {
				require.NotNil(t, errs)
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestValidateChallengeInputRaiseBoundary(t *testing.T) {
	in := validInput()

	// duration 30 → raise may be at most 15
	in.FirstRaiseTime = 15
	assert.Nil(t, validateChallengeInput(in))

	// odd duration floors: 31 → at most 15
	in.Duration = 31
	assert.Nil(t, validateChallengeInput(in))
	in.FirstRaiseTime = 16
	assert.Contains(t, validateChallengeInput(in), "firstRaiseTime")
}

func TestValidateChallengeInputCollectsAllFields(t *testing.T) {
	errs := validateChallengeInput(ChallengeInput{})
	require.NotNil(t, errs)
	for _, field := range []string{"name", "description", "exerciseType", "exerciseCount", "originalBet", "duration", "durationUnit"} {
		assert.Contains(t, errs, field)
	}
}

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

func TestBuildChallengeUpdateWhitelist(t *testing.T) {
	set, errs := buildChallengeUpdate(ChallengeUpdate{
		Name:           strPtr("renamed"),
		Description:    strPtr("new text"),
		ExerciseType:   strPtr("squats"),
		ExerciseCount:  intPtr(50),
		OriginalBet:    f64Ptr(75),
		Duration:       intPtr(14),
		DurationUnit:   strPtr("days"),
		FirstRaiseTime: intPtr(7),
	})
	require.Nil(t, errs)

	// Only whitelisted fields may appear; system-managed fields never do.
	for key := range set {
		assert.NotContains(t, []string{"status", "createdBy", "participants", "verifications", "createdAt"}, key)
	}
	assert.Equal(t, "renamed", set["name"])
	assert.Equal(t, "squats", set["exerciseType"])
	assert.Len(t, set, 8)
}

func TestBuildChallengeUpdateEmptyPatch(t *testing.T) {
	set, errs := buildChallengeUpdate(ChallengeUpdate{})
	assert.Nil(t, errs)
	assert.Empty(t, set)
}

func TestBuildChallengeUpdateRejectsBadValues(t *testing.T) {
	_, errs := buildChallengeUpdate(ChallengeUpdate{
		Name:         strPtr(""),
		ExerciseType: strPtr("burpees"),
		OriginalBet:  f64Ptr(-1),
		DurationUnit: strPtr("fortnights"),
	})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "exerciseType")
	assert.Contains(t, errs, "originalBet")
	assert.Contains(t, errs, "durationUnit")
}

func TestJoinFilterShape(t *testing.T) {
	challengeID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := joinFilter(challengeID, userID)

	assert.Equal(t, challengeID, filter["_id"])
	// Self-join and duplicate join are excluded by the filter itself, so the
	// append stays race-free under concurrent requests.
	assert.Equal(t, bson.M{"$ne": userID}, filter["createdBy"])
	assert.Equal(t, bson.M{"$ne": userID}, filter["participants.userId"])
}

func TestJoinUpdateAppendsActiveParticipant(t *testing.T) {
	userID := primitive.NewObjectID()
	update := joinUpdate(userID, 1700000000)

	push, ok := update["$push"].(bson.M)
	require.True(t, ok)
	participant, ok := push["participants"].(models.Participant)
	require.True(t, ok)
	assert.Equal(t, userID, participant.UserID)
	assert.Equal(t, int64(1700000000), participant.JoinedAt)
	assert.Equal(t, models.ParticipantActive, participant.Status)
}

func TestLeaveFilterAndUpdate(t *testing.T) {
	challengeID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := leaveFilter(challengeID, userID)
	assert.Equal(t, userID, filter["participants.userId"])

	update := leaveUpdate(userID)
	pull, ok := update["$pull"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"userId": userID}, pull["participants"])
}

func TestVerifyFilterAdmitsCreatorOrParticipant(t *testing.T) {
	challengeID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := verifyFilter(challengeID, userID)
	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	assert.Contains(t, or, bson.M{"createdBy": userID})
	assert.Contains(t, or, bson.M{"participants.userId": userID})
}

func TestCreateChallengeRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(ChallengeInput{Name: "no bet"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/challenges", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", primitive.NewObjectID().Hex())

	CreateChallenge(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Contains(t, resp.Errors, "originalBet")
	assert.Contains(t, resp.Errors, "duration")
	assert.NotContains(t, resp.Errors, "name")
}
