package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"fitstake/database"
	"fitstake/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportInput struct {
	ReportedUserID string `json:"reportedUserId" binding:"required"`
	ChallengeID    string `json:"challengeId"`
	VideoURL       string `json:"videoUrl"`
	Reason         string `json:"reason"`
}

func CreateReport(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var in ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reportedID, err := primitive.ObjectIDFromHex(in.ReportedUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reported user ID"})
		return
	}

	reason := in.Reason
	if reason == "" {
		reason = models.DefaultReportReason
	}

	report := models.Report{
		ID:             primitive.NewObjectID(),
		ReporterID:     userID,
		ReportedUserID: reportedID,
		VideoURL:       in.VideoURL,
		Reason:         reason,
		Status:         models.ReportPending,
		CreatedAt:      time.Now().Unix(),
	}

	if in.ChallengeID != "" {
		challengeID, err := primitive.ObjectIDFromHex(in.ChallengeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
			return
		}
		report.ChallengeID = challengeID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Reports.InsertOne(ctx, report); err != nil {
		log.Printf("CreateReport insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// AdminListReports returns all reports with reporter and reported user names
// joined from profiles, newest first.
func AdminListReports(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Reports.Find(ctx, bson.M{}, optionsFindByCreatedAtDesc())
	if err != nil {
		log.Printf("AdminListReports find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode reports"})
		return
	}

	ids := make([]primitive.ObjectID, 0, 2*len(reports))
	seen := make(map[primitive.ObjectID]bool)
	for _, r := range reports {
		for _, id := range []primitive.ObjectID{r.ReporterID, r.ReportedUserID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	names := make(map[primitive.ObjectID]string)
	if len(ids) > 0 {
		profilesCursor, err := database.Profiles.Find(ctx, bson.M{"userId": bson.M{"$in": ids}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
			return
		}
		defer profilesCursor.Close(ctx)

		var profiles []models.Profile
		if err := profilesCursor.All(ctx, &profiles); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode profiles"})
			return
		}
		for _, p := range profiles {
			names[p.UserID] = p.Name
		}
	}

	nameOf := func(id primitive.ObjectID) string {
		if name, ok := names[id]; ok && name != "" {
			return name
		}
		return fallbackName
	}

	response := make([]gin.H, len(reports))
	for i, r := range reports {
		entry := gin.H{
			"id":        r.ID.Hex(),
			"reporter":  gin.H{"id": r.ReporterID.Hex(), "name": nameOf(r.ReporterID)},
			"reported":  gin.H{"id": r.ReportedUserID.Hex(), "name": nameOf(r.ReportedUserID)},
			"reason":    r.Reason,
			"status":    r.Status,
			"createdAt": r.CreatedAt,
		}
		if !r.ChallengeID.IsZero() {
			entry["challengeId"] = r.ChallengeID.Hex()
		}
		if r.VideoURL != "" {
			entry["videoUrl"] = r.VideoURL
		}
		response[i] = entry
	}

	c.JSON(http.StatusOK, response)
}

// validReportTransition allows pending to move to a terminal status and
// tolerates re-applying the status a report already has.
func validReportTransition(from, to string) bool {
	switch to {
	case models.ReportReviewed, models.ReportDismissed:
		return from == models.ReportPending || from == to
	case models.ReportPending:
		return from == models.ReportPending
	default:
		return false
	}
}

// AdminUpdateReportStatus moves a report out of pending. Re-setting an
// already-terminal status is an idempotent no-op.
func AdminUpdateReportStatus(c *gin.Context) {
	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var report models.Report
	err = database.Reports.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}

	if !validReportTransition(report.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  map[string]string{"status": "Cannot move a " + report.Status + " report to " + req.Status},
		})
		return
	}

	if report.Status == req.Status {
		c.JSON(http.StatusOK, report)
		return
	}

	err = database.Reports.FindOneAndUpdate(
		ctx,
		bson.M{"_id": reportID},
		bson.M{"$set": bson.M{"status": req.Status}},
		optionsReturnAfter(),
	).Decode(&report)
	if err != nil {
		log.Printf("AdminUpdateReportStatus error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report status"})
		return
	}

	c.JSON(http.StatusOK, report)
}
