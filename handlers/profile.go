package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"fitstake/database"
	"fitstake/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pictureFields are the multipart slots a profile save may carry.
var pictureFields = []string{
	"profilePicture",
	"showcasePicture1",
	"showcasePicture2",
	"idPicture",
	"frontalPicture",
}

func GetMyProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err = database.Profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func GetUserProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err = database.Profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SaveProfile creates or replaces the requester's profile. Multipart picture
// slots overwrite their predecessors; the superseded file is removed
// best-effort. isVerified is never settable here.
func SaveProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	name := c.PostForm("name")
	ageStr := c.PostForm("age")
	fitnessExperience := c.PostForm("fitnessExperience")

	errs := make(map[string]string)
	if name == "" {
		errs["name"] = "Name is required"
	}
	age, ageErr := strconv.Atoi(ageStr)
	if ageStr == "" {
		errs["age"] = "Age is required"
	} else if ageErr != nil || age < 1 {
		errs["age"] = "Age must be a positive number"
	}
	if fitnessExperience == "" {
		errs["fitnessExperience"] = "Fitness experience is required"
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": errs})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var existing models.Profile
	hasExisting := true
	err = database.Profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		hasExisting = false
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	set := bson.M{
		"userId":            userID,
		"name":              name,
		"age":               age,
		"fitnessExperience": fitnessExperience,
		"updatedAt":         time.Now().Unix(),
	}

	existingPaths := map[string]string{
		"profilePicture":   existing.ProfilePicture,
		"showcasePicture1": existing.ShowcasePicture1,
		"showcasePicture2": existing.ShowcasePicture2,
		"idPicture":        existing.IDPicture,
		"frontalPicture":   existing.FrontalPicture,
	}

	var superseded []string
	for _, field := range pictureFields {
		header, err := c.FormFile(field)
		if err != nil {
			continue // slot not present in this request, keep the old file
		}

		path, err := blobStore.SaveProfilePicture(field, header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Validation failed",
				"errors":  map[string]string{field: err.Error()},
			})
			return
		}
		set[field] = path

		if hasExisting && existingPaths[field] != "" {
			superseded = append(superseded, existingPaths[field])
		}
	}

	var profile models.Profile
	err = database.Profiles.FindOneAndUpdate(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"isVerified": false}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		log.Printf("SaveProfile upsert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	// The new pictures are durably referenced; old files can go.
	for _, path := range superseded {
		if err := blobStore.Remove(path); err != nil {
			log.Printf("SaveProfile: failed to remove superseded file %s: %v", path, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// AdminListProfiles returns every profile, newest first.
func AdminListProfiles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Profiles.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	if err != nil {
		log.Printf("AdminListProfiles find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
		return
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode profiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// AdminVerifyProfile flips isVerified on. There is no unverify operation.
func AdminVerifyProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err = database.Profiles.FindOneAndUpdate(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"isVerified": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		log.Printf("AdminVerifyProfile error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile verified",
		"profile": profile,
	})
}
