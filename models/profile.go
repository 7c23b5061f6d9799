package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Profile struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Name              string             `bson:"name" json:"name"`
	Age               int                `bson:"age" json:"age"`
	FitnessExperience string             `bson:"fitnessExperience" json:"fitnessExperience"`
	ProfilePicture    string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	ShowcasePicture1  string             `bson:"showcasePicture1,omitempty" json:"showcasePicture1,omitempty"`
	ShowcasePicture2  string             `bson:"showcasePicture2,omitempty" json:"showcasePicture2,omitempty"`
	IDPicture         string             `bson:"idPicture,omitempty" json:"idPicture,omitempty"`
	FrontalPicture    string             `bson:"frontalPicture,omitempty" json:"frontalPicture,omitempty"`
	IsVerified        bool               `bson:"isVerified" json:"isVerified"`
	UpdatedAt         int64              `bson:"updatedAt" json:"updatedAt"`
}
