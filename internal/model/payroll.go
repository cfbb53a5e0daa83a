package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Payroll struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	PayrollID    int64         `bson:"payroll_id" json:"payrollId"`
	EmployeeID   int64         `bson:"employee_id" json:"employeeId"`
	PayPeriod    string        `bson:"pay_period" json:"payPeriod"` // YYYY-MM
	BasicSalary  float64       `bson:"basic_salary" json:"basicSalary"`
	Bonus        float64       `bson:"bonus" json:"bonus"`
	EPFDeduction float64       `bson:"epf_deduction" json:"epfDeduction"`
	ETFDeduction float64       `bson:"etf_deduction" json:"etfDeduction"`
	NetSalary    float64       `bson:"net_salary" json:"netSalary"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}
