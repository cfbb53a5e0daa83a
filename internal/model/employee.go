package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Employee struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	EmployeeID  int64         `bson:"employee_id" json:"employeeId"`
	Name        string        `bson:"name" json:"name"`
	Role        string        `bson:"role" json:"role"`
	BasicSalary float64       `bson:"basic_salary" json:"basicSalary"`
	Bonus       float64       `bson:"bonus" json:"bonus"`
	Email       string        `bson:"email" json:"email"`
	PhoneNumber string        `bson:"phone_number" json:"phoneNumber"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updatedAt"`
}
