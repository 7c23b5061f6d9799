package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"slices"
	"time"

	"fitstake/database"
	"fitstake/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ChallengeInput struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	ExerciseType   string  `json:"exerciseType"`
	ExerciseCount  int     `json:"exerciseCount"`
	OriginalBet    float64 `json:"originalBet"`
	Duration       int     `json:"duration"`
	DurationUnit   string  `json:"durationUnit"`
	FirstRaiseTime int     `json:"firstRaiseTime"`
}

// validateChallengeInput returns one message per offending field so the
// client can surface all of them at once.
func validateChallengeInput(in ChallengeInput) map[string]string {
	errs := make(map[string]string)

	if in.Name == "" {
		errs["name"] = "Name is required"
	}
	if in.Description == "" {
		errs["description"] = "Description is required"
	}
	if !slices.Contains(models.ExerciseTypes, in.ExerciseType) {
		errs["exerciseType"] = "Exercise type must be one of: pushups, squats, situps, pullups"
	}
	if in.ExerciseCount < 1 {
		errs["exerciseCount"] = "Exercise count must be at least 1"
	}
	if in.OriginalBet <= 0 {
		errs["originalBet"] = "Bet must be a positive amount"
	}
	if in.Duration < 1 {
		errs["duration"] = "Duration must be at least 1"
	}
	if !slices.Contains(models.DurationUnits, in.DurationUnit) {
		errs["durationUnit"] = "Duration unit must be days or weeks"
	}
	if in.FirstRaiseTime < 0 {
		errs["firstRaiseTime"] = "First raise time cannot be negative"
	} else if in.FirstRaiseTime > 0 && in.Duration >= 1 && in.FirstRaiseTime > int(math.Floor(float64(in.Duration)/2)) {
		errs["firstRaiseTime"] = "First raise time cannot be later than half the duration"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func CreateChallenge(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var in ChallengeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := validateChallengeInput(in); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": errs})
		return
	}

	challenge := models.Challenge{
		ID:             primitive.NewObjectID(),
		Name:           in.Name,
		Description:    in.Description,
		ExerciseType:   in.ExerciseType,
		ExerciseCount:  in.ExerciseCount,
		OriginalBet:    in.OriginalBet,
		Duration:       in.Duration,
		DurationUnit:   in.DurationUnit,
		FirstRaiseTime: in.FirstRaiseTime,
		CreatedBy:      userID,
		Status:         models.ChallengeActive,
		CreatedAt:      time.Now().Unix(),
		Participants:   []models.Participant{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Challenges.InsertOne(ctx, challenge); err != nil {
		log.Printf("CreateChallenge insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusCreated, challenge)
}

// creatorInfo is the profile projection joined onto challenge listings.
type creatorInfo struct {
	Name           string
	ProfilePicture string
	IsVerified     bool
}

func creatorProfiles(ctx context.Context, challenges []models.Challenge) (map[primitive.ObjectID]creatorInfo, error) {
	ids := make([]primitive.ObjectID, 0, len(challenges))
	seen := make(map[primitive.ObjectID]bool)
	for _, ch := range challenges {
		if !seen[ch.CreatedBy] {
			seen[ch.CreatedBy] = true
			ids = append(ids, ch.CreatedBy)
		}
	}

	infos := make(map[primitive.ObjectID]creatorInfo)
	if len(ids) == 0 {
		return infos, nil
	}

	cursor, err := database.Profiles.Find(ctx, bson.M{"userId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	for _, p := range profiles {
		infos[p.UserID] = creatorInfo{
			Name:           p.Name,
			ProfilePicture: p.ProfilePicture,
			IsVerified:     p.IsVerified,
		}
	}
	return infos, nil
}

func enrichChallenges(challenges []models.Challenge, infos map[primitive.ObjectID]creatorInfo, requester primitive.ObjectID) []gin.H {
	out := make([]gin.H, len(challenges))
	for i, ch := range challenges {
		info, ok := infos[ch.CreatedBy]
		if !ok {
			info = creatorInfo{Name: fallbackName}
		}
		out[i] = gin.H{
			"id":                    ch.ID.Hex(),
			"name":                  ch.Name,
			"description":           ch.Description,
			"exerciseType":          ch.ExerciseType,
			"exerciseCount":         ch.ExerciseCount,
			"originalBet":           ch.OriginalBet,
			"duration":              ch.Duration,
			"durationUnit":          ch.DurationUnit,
			"firstRaiseTime":        ch.FirstRaiseTime,
			"createdBy":             ch.CreatedBy.Hex(),
			"status":                ch.Status,
			"createdAt":             ch.CreatedAt,
			"participants":          ch.Participants,
			"verifications":         ch.Verifications,
			"isCreator":             ch.CreatedBy == requester,
			"creatorName":           info.Name,
			"creatorProfilePicture": info.ProfilePicture,
			"creatorIsVerified":     info.IsVerified,
		}
	}
	return out
}

// GetAllChallenges lists open challenges: not cancelled and not yet accepted
// by anyone.
func GetAllChallenges(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":       bson.M{"$ne": models.ChallengeCancelled},
		"participants": bson.M{"$size": 0},
	}
	opts := optionsFindByCreatedAtDesc()

	cursor, err := database.Challenges.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("GetAllChallenges find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}
	defer cursor.Close(ctx)

	var challenges []models.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenges"})
		return
	}

	infos, err := creatorProfiles(ctx, challenges)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch creator profiles"})
		return
	}

	c.JSON(http.StatusOK, enrichChallenges(challenges, infos, userID))
}

// GetMyChallenges lists challenges the requester created or participates in.
func GetMyChallenges(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"createdBy": userID},
		{"participants.userId": userID},
	}}

	cursor, err := database.Challenges.Find(ctx, filter, optionsFindByCreatedAtDesc())
	if err != nil {
		log.Printf("GetMyChallenges find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}
	defer cursor.Close(ctx)

	var challenges []models.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenges"})
		return
	}

	infos, err := creatorProfiles(ctx, challenges)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch creator profiles"})
		return
	}

	c.JSON(http.StatusOK, enrichChallenges(challenges, infos, userID))
}

func GetChallenge(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

type ChallengeUpdate struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	ExerciseType   *string  `json:"exerciseType"`
	ExerciseCount  *int     `json:"exerciseCount"`
	OriginalBet    *float64 `json:"originalBet"`
	Duration       *int     `json:"duration"`
	DurationUnit   *string  `json:"durationUnit"`
	FirstRaiseTime *int     `json:"firstRaiseTime"`
}

// buildChallengeUpdate turns a whitelisted patch into a $set document.
// System-managed fields (status, createdBy, participants, verifications) are
// not in the whitelist and can never be merged in.
func buildChallengeUpdate(in ChallengeUpdate) (bson.M, map[string]string) {
	set := bson.M{}
	errs := make(map[string]string)

	if in.Name != nil {
		if *in.Name == "" {
			errs["name"] = "Name cannot be empty"
		} else {
			set["name"] = *in.Name
		}
	}
	if in.Description != nil {
		if *in.Description == "" {
			errs["description"] = "Description cannot be empty"
		} else {
			set["description"] = *in.Description
		}
	}
	if in.ExerciseType != nil {
		if !slices.Contains(models.ExerciseTypes, *in.ExerciseType) {
			errs["exerciseType"] = "Exercise type must be one of: pushups, squats, situps, pullups"
		} else {
			set["exerciseType"] = *in.ExerciseType
		}
	}
	if in.ExerciseCount != nil {
		if *in.ExerciseCount < 1 {
			errs["exerciseCount"] = "Exercise count must be at least 1"
		} else {
			set["exerciseCount"] = *in.ExerciseCount
		}
	}
	if in.OriginalBet != nil {
		if *in.OriginalBet <= 0 {
			errs["originalBet"] = "Bet must be a positive amount"
		} else {
			set["originalBet"] = *in.OriginalBet
		}
	}
	if in.Duration != nil {
		if *in.Duration < 1 {
			errs["duration"] = "Duration must be at least 1"
		} else {
			set["duration"] = *in.Duration
		}
	}
	if in.DurationUnit != nil {
		if !slices.Contains(models.DurationUnits, *in.DurationUnit) {
			errs["durationUnit"] = "Duration unit must be days or weeks"
		} else {
			set["durationUnit"] = *in.DurationUnit
		}
	}
	if in.FirstRaiseTime != nil {
		if *in.FirstRaiseTime < 0 {
			errs["firstRaiseTime"] = "First raise time cannot be negative"
		} else {
			set["firstRaiseTime"] = *in.FirstRaiseTime
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return set, nil
}

// UpdateChallenge merges a whitelisted set of fields. Creator only.
func UpdateChallenge(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	var in ChallengeUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, errs := buildChallengeUpdate(in)
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": errs})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}

	if challenge.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this challenge"})
		return
	}

	if len(set) == 0 {
		c.JSON(http.StatusOK, challenge)
		return
	}

	err = database.Challenges.FindOneAndUpdate(
		ctx,
		bson.M{"_id": challengeID},
		bson.M{"$set": set},
		optionsReturnAfter(),
	).Decode(&challenge)
	if err != nil {
		log.Printf("UpdateChallenge error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// DeleteChallenge hard-deletes. Creator or admin. Chat messages and reports
// referencing the challenge are retained as orphans.
func DeleteChallenge(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}

	if challenge.CreatedBy != userID && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this challenge"})
		return
	}

	if _, err := database.Challenges.DeleteOne(ctx, bson.M{"_id": challengeID}); err != nil {
		log.Printf("DeleteChallenge error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted successfully"})
}

// joinFilter matches the challenge only when the requester can still join:
// not the creator and not already on the roster. Combined with joinUpdate in
// a single UpdateOne this makes concurrent joins race-free.
func joinFilter(challengeID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":                 challengeID,
		"createdBy":           bson.M{"$ne": userID},
		"participants.userId": bson.M{"$ne": userID},
	}
}

func joinUpdate(userID primitive.ObjectID, now int64) bson.M {
	return bson.M{"$push": bson.M{"participants": models.Participant{
		UserID:   userID,
		JoinedAt: now,
		Status:   models.ParticipantActive,
	}}}
}

// JoinChallenge appends the requester to the roster with an atomic
// conditional update. Serves both /join and /accept.
func JoinChallenge(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOneAndUpdate(
		ctx,
		joinFilter(challengeID, userID),
		joinUpdate(userID, time.Now().Unix()),
		optionsReturnAfter(),
	).Decode(&challenge)
	if err == nil {
		c.JSON(http.StatusOK, challenge)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("JoinChallenge error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge"})
		return
	}

	// The guarded update matched nothing; find out why.
	err = database.Challenges.FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}
	if challenge.CreatedBy == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot accept your own challenge"})
		return
	}
	c.JSON(http.StatusConflict, gin.H{"error": "Already participating in this challenge"})
}

func leaveFilter(challengeID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":                 challengeID,
		"participants.userId": userID,
	}
}

func leaveUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{"participants": bson.M{"userId": userID}}}
}

// LeaveChallenge removes the requester from the roster atomically.
func LeaveChallenge(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOneAndUpdate(
		ctx,
		leaveFilter(challengeID, userID),
		leaveUpdate(userID),
		optionsReturnAfter(),
	).Decode(&challenge)
	if err == nil {
		c.JSON(http.StatusOK, challenge)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("LeaveChallenge error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave challenge"})
		return
	}

	count, err := database.Challenges.CountDocuments(ctx, bson.M{"_id": challengeID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	c.JSON(http.StatusConflict, gin.H{"error": "Not participating in this challenge"})
}

// CompleteChallenge is the only transition that produces status=completed.
// Creator only, and only from active.
func CompleteChallenge(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOneAndUpdate(
		ctx,
		bson.M{"_id": challengeID, "createdBy": userID, "status": models.ChallengeActive},
		bson.M{"$set": bson.M{"status": models.ChallengeCompleted}},
		optionsReturnAfter(),
	).Decode(&challenge)
	if err == nil {
		c.JSON(http.StatusOK, challenge)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("CompleteChallenge error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete challenge"})
		return
	}

	err = database.Challenges.FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}
	if challenge.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to complete this challenge"})
		return
	}
	c.JSON(http.StatusConflict, gin.H{"error": "Challenge is not active"})
}

// AdminOngoingChallenges returns every active challenge with the creator and
// all participants enriched with profile name and picture.
func AdminOngoingChallenges(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: models.ChallengeActive}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "profiles"},
			{Key: "localField", Value: "createdBy"},
			{Key: "foreignField", Value: "userId"},
			{Key: "as", Value: "creatorProfile"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "profiles"},
			{Key: "localField", Value: "participants.userId"},
			{Key: "foreignField", Value: "userId"},
			{Key: "as", Value: "participantProfiles"},
		}}},
	}

	cursor, err := database.Challenges.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("AdminOngoingChallenges aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenges"})
		return
	}

	response := make([]gin.H, len(raw))
	for i, r := range raw {
		response[i] = gin.H{
			"id":            r["_id"],
			"name":          r["name"],
			"description":   r["description"],
			"exerciseType":  r["exerciseType"],
			"exerciseCount": r["exerciseCount"],
			"originalBet":   r["originalBet"],
			"duration":      r["duration"],
			"durationUnit":  r["durationUnit"],
			"status":        r["status"],
			"createdAt":     r["createdAt"],
			"createdBy":     r["createdBy"],
			"creator":       profileSummary(firstDoc(r["creatorProfile"])),
			"participants":  participantSummaries(r["participants"], r["participantProfiles"]),
		}
	}

	c.JSON(http.StatusOK, response)
}

func firstDoc(v interface{}) bson.M {
	arr, ok := v.(bson.A)
	if !ok || len(arr) == 0 {
		return nil
	}
	doc, _ := arr[0].(bson.M)
	return doc
}

func profileSummary(p bson.M) gin.H {
	summary := gin.H{"name": fallbackName, "profilePicture": ""}
	if p == nil {
		return summary
	}
	if name, _ := p["name"].(string); name != "" {
		summary["name"] = name
	}
	if pic, _ := p["profilePicture"].(string); pic != "" {
		summary["profilePicture"] = pic
	}
	return summary
}

func participantSummaries(participants, profiles interface{}) []gin.H {
	byUser := make(map[primitive.ObjectID]bson.M)
	if arr, ok := profiles.(bson.A); ok {
		for _, v := range arr {
			if doc, ok := v.(bson.M); ok {
				if id, ok := doc["userId"].(primitive.ObjectID); ok {
					byUser[id] = doc
				}
			}
		}
	}

	var out []gin.H
	if arr, ok := participants.(bson.A); ok {
		for _, v := range arr {
			doc, ok := v.(bson.M)
			if !ok {
				continue
			}
			entry := gin.H{
				"userId":   doc["userId"],
				"joinedAt": doc["joinedAt"],
				"status":   doc["status"],
			}
			if id, ok := doc["userId"].(primitive.ObjectID); ok {
				profile := profileSummary(byUser[id])
				entry["name"] = profile["name"]
				entry["profilePicture"] = profile["profilePicture"]
			}
			out = append(out, entry)
		}
	}
	if out == nil {
		out = []gin.H{}
	}
	return out
}

// verifyFilter admits the creator or any current participant, so the append
// and the authorization check happen in one atomic update.
func verifyFilter(challengeID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id": challengeID,
		"$or": []bson.M{
			{"createdBy": userID},
			{"participants.userId": userID},
		},
	}
}

func verifyUpdate(v models.Verification) bson.M {
	return bson.M{"$push": bson.M{"verifications": v}}
}

// VerifyDaily accepts a multipart video upload as proof of daily compliance
// and appends a verification entry to the challenge.
func VerifyDaily(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	header, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  map[string]string{"video": "A video file is required"},
		})
		return
	}

	videoURL, err := blobStore.SaveVerificationVideo(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  map[string]string{"video": err.Error()},
		})
		return
	}

	verification := models.Verification{
		UserID:    userID,
		VideoURL:  videoURL,
		Timestamp: time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var challenge models.Challenge
	err = database.Challenges.FindOneAndUpdate(
		ctx,
		verifyFilter(challengeID, userID),
		verifyUpdate(verification),
		optionsReturnAfter(),
	).Decode(&challenge)
	if err == nil {
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Verification uploaded",
			"verification": verification,
			"challenge":    challenge,
		})
		return
	}

	// The append did not happen; remove the stored file.
	if remErr := blobStore.Remove(videoURL); remErr != nil {
		log.Printf("VerifyDaily cleanup error: %v", remErr)
	}

	if err != mongo.ErrNoDocuments {
		log.Printf("VerifyDaily error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record verification"})
		return
	}

	count, err := database.Challenges.CountDocuments(ctx, bson.M{"_id": challengeID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or a participant can submit verifications"})
}
