package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	UserRoleClient = "client"
	UserRoleAdmin  = "admin"
)

type User struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string        `bson:"name" json:"name"`
	Email    string        `bson:"email" json:"email"`
	Password string        `bson:"password" json:"-"`
	Role     string        `bson:"role" json:"role"`
	IsAdmin  bool          `bson:"is_admin" json:"isAdmin"`
	Mobile   string        `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Address  string        `bson:"address,omitempty" json:"address,omitempty"`
	Height   float64       `bson:"height,omitempty" json:"height,omitempty"`
	Weight   float64       `bson:"weight,omitempty" json:"weight,omitempty"`
	Birthday *time.Time    `bson:"birthday,omitempty" json:"birthday,omitempty"`

	ResetTokenHash   string     `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpiry *time.Time `bson:"reset_token_expiry,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (u *User) Admin() bool {
	return u.IsAdmin || u.Role == UserRoleAdmin
}
