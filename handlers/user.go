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
)

// GetUsers returns the member directory: every other user who has a named
// profile, with name and picture joined in.
func GetUsers(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$ne": userID}})
	if err != nil {
		log.Printf("GetUsers find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	ids := make([]primitive.ObjectID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	profilesByUser := make(map[primitive.ObjectID]models.Profile)
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
			profilesByUser[p.UserID] = p
		}
	}

	response := []gin.H{}
	for _, u := range users {
		profile, ok := profilesByUser[u.ID]
		if !ok || profile.Name == "" {
			continue // directory lists only users who completed a profile
		}
		response = append(response, gin.H{
			"id":    u.ID.Hex(),
			"email": u.Email,
			"profile": gin.H{
				"name":           profile.Name,
				"profilePicture": profile.ProfilePicture,
				"isVerified":     profile.IsVerified,
			},
		})
	}

	c.JSON(http.StatusOK, response)
}
