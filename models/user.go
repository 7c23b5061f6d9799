package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"` // member, admin
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
}
