package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var Users *mongo.Collection
var Profiles *mongo.Collection
var Challenges *mongo.Collection
var ChatMessages *mongo.Collection
var DirectMessages *mongo.Collection
var Reports *mongo.Collection
var PushSubs *mongo.Collection

func ConnectMongo() error {
	// Read MongoDB URI from environment variable
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("MONGODB_URI not set, using default localhost")
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	// Ping MongoDB
	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database("fitstake")
	Users = db.Collection("users")
	Profiles = db.Collection("profiles")
	Challenges = db.Collection("challenges")
	ChatMessages = db.Collection("chat_messages")
	DirectMessages = db.Collection("direct_messages")
	Reports = db.Collection("reports")
	PushSubs = db.Collection("push_subscriptions")

	log.Println("Connected to MongoDB successfully")
	return nil
}

// EnsureIndexes declares the uniqueness and query indexes every collection
// relies on. Duplicate-join prevention leans on atomic filtered updates, but
// users.email and profiles.userId uniqueness is enforced here.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	_, err := Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = Profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = Challenges.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "participants.userId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = ChatMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "challengeId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = DirectMessages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = Reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = PushSubs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func DisconnectMongo() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
