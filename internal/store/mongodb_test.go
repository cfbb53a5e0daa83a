package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"fitpharm-api/internal/model"
)

// newTestDB connects to MONGODB_URI and returns a throwaway database that is
// dropped when the test ends. Tests are skipped when no server is configured.
func newTestDB(t *testing.T) (*MongoDB, *Counters) {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	db, err := NewMongoDB(uri, "fitpharm_test_"+bson.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.db.Drop(ctx); err != nil {
			t.Errorf("drop test database: %v", err)
		}
		db.Close(ctx)
	})
	return db, NewCounters(db)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCountersNext(t *testing.T) {
	_, counters := newTestDB(t)
	ctx := testContext(t)

	for want := int64(1); want <= 3; want++ {
		got, err := counters.Next(ctx, "employee_id")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("employee_id = %d, want %d", got, want)
		}
	}
	if got, err := counters.Next(ctx, "payroll_id"); err != nil || got != 1 {
		t.Errorf("payroll_id = %d, %v; want 1", got, err)
	}
}

func TestEmployeeStoreUniqueEmail(t *testing.T) {
	db, counters := newTestDB(t)
	ctx := testContext(t)
	s, err := NewEmployeeStore(ctx, db, counters)
	if err != nil {
		t.Fatal(err)
	}

	e := &model.Employee{Name: "Jane", Role: "Pharmacist", BasicSalary: 50000, Email: "jane@example.com", PhoneNumber: "0771234567"}
	if err := s.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	if e.EmployeeID != 1 || e.ID.IsZero() {
		t.Errorf("created = %+v", e)
	}

	dup := &model.Employee{Name: "Other", Role: "Cashier", Email: "jane@example.com", PhoneNumber: "0771234568"}
	if err := s.Create(ctx, dup); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate email err = %v, want ErrDuplicateKey", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil || got == nil || got.Email != "jane@example.com" {
		t.Errorf("Get(1) = %+v, %v", got, err)
	}
	if got, err := s.Get(ctx, 99); got != nil || err != nil {
		t.Errorf("Get(99) = %+v, %v; want nil, nil", got, err)
	}
}

func TestAttendanceStoreDayRange(t *testing.T) {
	db, counters := newTestDB(t)
	ctx := testContext(t)
	s, err := NewAttendanceStore(ctx, db, counters)
	if err != nil {
		t.Fatal(err)
	}

	morning := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	if err := s.Create(ctx, &model.Attendance{EmployeeID: 1, Date: morning, Status: model.AttendanceStatusPresent}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		day   time.Time
		found bool
	}{
		{"same day", model.StartOfDay(morning), true},
		{"same day from a late timestamp", model.StartOfDay(morning.Add(15 * time.Hour)), true},
		{"next day", model.StartOfDay(morning.AddDate(0, 0, 1)), false},
		{"previous day", model.StartOfDay(morning.AddDate(0, 0, -1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := s.FindForDay(ctx, 1, tt.day)
			if err != nil {
				t.Fatal(err)
			}
			if (a != nil) != tt.found {
				t.Errorf("found = %v, want %v", a != nil, tt.found)
			}
		})
	}

	evening := &model.Attendance{EmployeeID: 1, Date: morning.Add(10 * time.Hour), Status: model.AttendanceStatusPresent}
	if err := s.Create(ctx, evening); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("second record same day err = %v, want ErrDuplicateKey", err)
	}
	if err := s.Create(ctx, &model.Attendance{EmployeeID: 2, Date: morning, Status: model.AttendanceStatusAbsent}); err != nil {
		t.Errorf("other employee same day: %v", err)
	}

	list, err := s.ListByDay(ctx, model.StartOfDay(morning))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("ListByDay = %d records, want 2", len(list))
	}
}

func TestPayrollStoreUniquePeriod(t *testing.T) {
	db, counters := newTestDB(t)
	ctx := testContext(t)
	s, err := NewPayrollStore(ctx, db, counters)
	if err != nil {
		t.Fatal(err)
	}

	p := &model.Payroll{EmployeeID: 1, PayPeriod: "2024-05", BasicSalary: 50000, EPFDeduction: 4000, ETFDeduction: 1500, NetSalary: 46000}
	if err := s.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, &model.Payroll{EmployeeID: 1, PayPeriod: "2024-05"}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate period err = %v, want ErrDuplicateKey", err)
	}
	if err := s.Create(ctx, &model.Payroll{EmployeeID: 1, PayPeriod: "2024-06"}); err != nil {
		t.Errorf("next period: %v", err)
	}

	got, err := s.FindForPeriod(ctx, 1, "2024-05")
	if err != nil || got == nil || got.PayrollID != p.PayrollID {
		t.Errorf("FindForPeriod = %+v, %v", got, err)
	}
	if got, err := s.FindForPeriod(ctx, 2, "2024-05"); got != nil || err != nil {
		t.Errorf("FindForPeriod(2) = %+v, %v; want nil, nil", got, err)
	}
}

func TestFeedbackStoreListByCustomer(t *testing.T) {
	db, counters := newTestDB(t)
	ctx := testContext(t)
	s, err := NewFeedbackStore(ctx, db, counters)
	if err != nil {
		t.Fatal(err)
	}

	alice, bob := bson.NewObjectID(), bson.NewObjectID()
	for _, f := range []*model.Feedback{
		{CustomerID: alice, CustomerEmail: "shared@example.com", PackageName: "Gold", Rating: 5},
		{CustomerID: bob, CustomerEmail: "shared@example.com", PackageName: "Silver", Rating: 3},
		{CustomerID: alice, CustomerEmail: "alice@example.com", PackageName: "Silver", Rating: 4},
	} {
		if err := s.Create(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListByCustomer(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("alice has %d feedback rows, want 2", len(list))
	}
	for _, f := range list {
		if f.CustomerID != alice {
			t.Errorf("row %d belongs to %s", f.FeedbackID, f.CustomerID.Hex())
		}
	}
}
