package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"fitstake/database"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	// Generate VAPID keys for development when none are configured. Production
	// deployments set them as environment variables.
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return
		}

		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("Generated new VAPID keys - for production, set these as environment variables")
	}

	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusOK, gin.H{
			"error":   "VAPID public key not configured",
			"message": "Contact administrator",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

// SubscribePush upserts the requester's web-push subscription.
func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pushSub := PushSubscription{
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err = database.PushSubs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"userId": pushSub.UserID, "sub": pushSub.Sub}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Push subscription saved successfully",
		"userId":  userID.Hex(),
	})
}

// SendPushNotification delivers a web-push message to one user, best-effort.
// Errors are logged and swallowed; an expired subscription is dropped.
func SendPushNotification(userID primitive.ObjectID, title, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sub PushSubscription
	err := database.PushSubs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return // no subscription, nothing to deliver
	}
	if err != nil {
		log.Printf("Failed to find subscription for user %s: %v", userID.Hex(), err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": title,
		"body":  body,
		"data": map[string]interface{}{
			"timestamp": time.Now().Unix(),
		},
	})
	if err != nil {
		log.Printf("Failed to marshal push payload: %v", err)
		return
	}

	resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
		Subscriber:      "mailto:admin@fitstake.app",
		VAPIDPrivateKey: vapidPrivateKey,
		TTL:             30,
	})
	if err != nil {
		log.Printf("Failed to send push notification to user %s: %v", userID.Hex(), err)
		return
	}
	defer resp.Body.Close()

	// The push service reports an expired or revoked subscription with 410.
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		if _, delErr := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
			log.Printf("Failed to delete expired subscription: %v", delErr)
		}
	}
}
