package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Feedback is a customer's review of a fitness package.
type Feedback struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	FeedbackID    int64         `bson:"pf_id" json:"pfID"`
	CustomerID    bson.ObjectID `bson:"customer_id" json:"customerId"`
	CustomerName  string        `bson:"customer_name" json:"customerName"`
	CustomerEmail string        `bson:"customer_email" json:"customerEmail"`
	PackageName   string        `bson:"package_name" json:"packageName"`
	Type          string        `bson:"type" json:"type"`
	Rating        int           `bson:"rating" json:"rating"`
	Note          string        `bson:"note" json:"note"`
	Date          time.Time     `bson:"date" json:"date"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}
