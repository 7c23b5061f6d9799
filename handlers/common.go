package handlers

import (
	"fitstake/storage"
	"fitstake/websocket"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Shared state wired in from main at startup.

const fallbackName = "Unknown User"

var wsManager *websocket.Manager
var blobStore *storage.Store
var vapidPrivateKey string

// PushSubscription pairs a user with their web-push subscription.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

// SetWebSocketManager sets the live-notification hub.
func SetWebSocketManager(manager *websocket.Manager) {
	wsManager = manager
}

// SetBlobStore sets the local-disk upload store.
func SetBlobStore(store *storage.Store) {
	blobStore = store
}

// SetVAPIDPrivateKey sets the web-push signing key.
func SetVAPIDPrivateKey(key string) {
	vapidPrivateKey = key
}

func optionsFindByCreatedAtDesc() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func optionsFindByTimestampAsc() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
}

func optionsReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
