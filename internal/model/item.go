package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Item struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name            string        `bson:"name" json:"name"`
	UnitPrice       *float64      `bson:"unit_price" json:"unitPrice"`
	PackPrice       float64       `bson:"pack_price" json:"packPrice"`
	Quantity        int           `bson:"quantity" json:"quantity"`
	Image           string        `bson:"image" json:"image"`
	Description     string        `bson:"description" json:"description"`
	ManufactureDate time.Time     `bson:"manufacture_date" json:"manufactureDate"`
	ExpiryDate      time.Time     `bson:"expiry_date" json:"expiryDate"`
	Size            string        `bson:"size,omitempty" json:"size,omitempty"`
	Flavor          string        `bson:"flavor,omitempty" json:"flavor,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}

// CartItem is one line of a user's cart. Price is whatever the client sent.
type CartItem struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string        `bson:"user_id" json:"userId"`
	ItemName  string        `bson:"item_name" json:"itemName"`
	Price     float64       `bson:"price" json:"price"`
	Quantity  int           `bson:"quantity" json:"quantity"`
	Image     string        `bson:"image" json:"image"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updatedAt"`
}
