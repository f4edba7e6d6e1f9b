package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark is a saved product recommendation belonging to a user.
type Bookmark struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID  string             `bson:"product_id" json:"product_id"`
	Name       string             `bson:"name" json:"name"`
	Brand      string             `bson:"brand" json:"brand"`
	Category   string             `bson:"category" json:"category"`
	Price      float64            `bson:"price" json:"price"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Image      string             `bson:"image" json:"image"` // local path or S3 key
	SourceURL  string             `bson:"source_url,omitempty" json:"source_url,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
