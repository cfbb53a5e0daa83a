package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	AttendanceStatusLeave   AttendanceStatus = "Leave"
)

type Attendance struct {
	ID           bson.ObjectID    `bson:"_id,omitempty" json:"_id"`
	AttendanceID int64            `bson:"attendance_id" json:"attendanceId"`
	EmployeeID   int64            `bson:"employee_id" json:"employeeId"`
	Date         time.Time        `bson:"date" json:"date"`
	Day          string           `bson:"day" json:"-"` // YYYY-MM-DD of Date, backs the unique index
	Status       AttendanceStatus `bson:"status" json:"status"`
	ClockIn      string           `bson:"clock_in,omitempty" json:"clockIn,omitempty"`   // HH:MM
	ClockOut     string           `bson:"clock_out,omitempty" json:"clockOut,omitempty"` // HH:MM
	CreatedAt    time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time        `bson:"updated_at" json:"updatedAt"`
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
