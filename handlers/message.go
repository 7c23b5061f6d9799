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

func pairFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"senderId": a, "receiverId": b},
		{"senderId": b, "receiverId": a},
	}}
}

// GetDirectMessages returns the full history for the (requester, peer) pair,
// oldest first. The lookup is symmetric, so both sides see the same history.
func GetDirectMessages(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	peerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DirectMessages.Find(ctx, pairFilter(userID, peerID), optionsFindByTimestampAsc())
	if err != nil {
		log.Printf("GetDirectMessages find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	defer cursor.Close(ctx)

	messages := []models.DirectMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

type DirectMessageInput struct {
	Content      string `json:"content" binding:"required"`
	Kind         string `json:"kind"`
	Verification *struct {
		VideoURL string `json:"videoUrl" binding:"required"`
	} `json:"verification"`
}

// buildDirectMessage resolves the explicit kind tag. A verification message
// must carry its payload; a text message must not.
func buildDirectMessage(sender, receiver primitive.ObjectID, in DirectMessageInput, now int64) (models.DirectMessage, map[string]string) {
	kind := in.Kind
	if kind == "" {
		kind = models.KindText
	}

	msg := models.DirectMessage{
		ID:         primitive.NewObjectID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    in.Content,
		Kind:       kind,
		IsRead:     false,
		Timestamp:  now,
	}

	switch kind {
	case models.KindText:
		if in.Verification != nil {
			return msg, map[string]string{"verification": "Verification payload requires kind=verification"}
		}
	case models.KindVerification:
		if in.Verification == nil {
			return msg, map[string]string{"verification": "Verification messages require a verification payload"}
		}
		msg.Verification = &models.VerificationPayload{
			VideoURL:  in.Verification.VideoURL,
			Timestamp: now,
		}
	default:
		return msg, map[string]string{"kind": "Kind must be text or verification"}
	}

	return msg, nil
}

// PostDirectMessage durably appends a direct message, then makes one
// best-effort delivery attempt: the live socket when the receiver is
// connected, web push otherwise. Delivery failure never fails the write.
func PostDirectMessage(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var in DirectMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, errs := buildDirectMessage(userID, receiverID, in, time.Now().Unix())
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": errs})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DirectMessages.InsertOne(ctx, message); err != nil {
		log.Printf("PostDirectMessage insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// Durable append succeeded; everything past this point is best-effort.
	notifyReceiver(userID, receiverID, message)

	c.JSON(http.StatusCreated, message)
}

func notifyReceiver(senderID, receiverID primitive.ObjectID, message models.DirectMessage) {
	if wsManager != nil && wsManager.IsConnected(receiverID.Hex()) {
		wsManager.NotifyUser(receiverID.Hex(), "new_message", message)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		senderName := fallbackName
		var profile models.Profile
		if err := database.Profiles.FindOne(ctx, bson.M{"userId": senderID}).Decode(&profile); err == nil && profile.Name != "" {
			senderName = profile.Name
		}

		body := message.Content
		if len(body) > 100 {
			body = body[:100] + "..."
		}
		SendPushNotification(receiverID, senderName+" sent a message", body)
	}()
}

// MarkMessagesRead flags every unread message from the peer to the requester
// as read. This is the only operation that touches the isRead flag.
func MarkMessagesRead(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	peerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DirectMessages.UpdateMany(
		ctx,
		bson.M{"senderId": peerID, "receiverId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		log.Printf("MarkMessagesRead error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Marked as read",
		"updatedCount": result.ModifiedCount,
	})
}
