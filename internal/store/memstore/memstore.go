// Package memstore holds in-memory stores with the same contracts as the
// MongoDB stores, unique indexes included. Used by tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"fitpharm-api/internal/model"
	"fitpharm-api/internal/store"
)

type EmployeeStore struct {
	mu   sync.Mutex
	next int64
	rows map[int64]model.Employee
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{rows: make(map[int64]model.Employee)}
}

func (s *EmployeeStore) Create(_ context.Context, e *model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	if s.emailTaken(e.Email, 0) {
		return store.ErrDuplicateKey
	}
	e.EmployeeID = s.next
	e.ID = bson.NewObjectID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	s.rows[e.EmployeeID] = *e
	return nil
}

func (s *EmployeeStore) List(_ context.Context) ([]*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Employee, 0, len(s.rows))
	for _, e := range s.rows {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *EmployeeStore) Get(_ context.Context, employeeID int64) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[employeeID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *EmployeeStore) GetMany(_ context.Context, ids []int64) (map[int64]*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]*model.Employee)
	for _, id := range ids {
		if e, ok := s.rows[id]; ok {
			out[id] = &e
		}
	}
	return out, nil
}

func (s *EmployeeStore) Update(_ context.Context, e *model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[e.EmployeeID]; !ok {
		return nil
	}
	if s.emailTaken(e.Email, e.EmployeeID) {
		return store.ErrDuplicateKey
	}
	e.UpdatedAt = time.Now()
	s.rows[e.EmployeeID] = *e
	return nil
}

func (s *EmployeeStore) Delete(_ context.Context, employeeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[employeeID]
	delete(s.rows, employeeID)
	return ok, nil
}

func (s *EmployeeStore) emailTaken(email string, except int64) bool {
	for id, e := range s.rows {
		if id != except && e.Email == email {
			return true
		}
	}
	return false
}

type AttendanceStore struct {
	mu   sync.Mutex
	next int64
	rows map[int64]model.Attendance
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{rows: make(map[int64]model.Attendance)}
}

func (s *AttendanceStore) Create(_ context.Context, a *model.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	day := a.Date.UTC().Format(time.DateOnly)
	if s.dayTaken(a.EmployeeID, day, 0) {
		return store.ErrDuplicateKey
	}
	a.AttendanceID = s.next
	a.Day = day
	a.ID = bson.NewObjectID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.rows[a.AttendanceID] = *a
	return nil
}

func (s *AttendanceStore) FindForDay(_ context.Context, employeeID int64, day time.Time) (*model.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := day.AddDate(0, 0, 1)
	for _, a := range s.rows {
		if a.EmployeeID == employeeID && !a.Date.Before(day) && a.Date.Before(end) {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *AttendanceStore) Get(_ context.Context, attendanceID int64) (*model.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[attendanceID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *AttendanceStore) List(_ context.Context) ([]*model.Attendance, error) {
	return s.filter(func(*model.Attendance) bool { return true }), nil
}

func (s *AttendanceStore) ListByEmployee(_ context.Context, employeeID int64) ([]*model.Attendance, error) {
	return s.filter(func(a *model.Attendance) bool { return a.EmployeeID == employeeID }), nil
}

func (s *AttendanceStore) ListByDay(_ context.Context, day time.Time) ([]*model.Attendance, error) {
	end := day.AddDate(0, 0, 1)
	return s.filter(func(a *model.Attendance) bool { return !a.Date.Before(day) && a.Date.Before(end) }), nil
}

func (s *AttendanceStore) Update(_ context.Context, a *model.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.AttendanceID]; !ok {
		return nil
	}
	day := a.Date.UTC().Format(time.DateOnly)
	if s.dayTaken(a.EmployeeID, day, a.AttendanceID) {
		return store.ErrDuplicateKey
	}
	a.Day = day
	a.UpdatedAt = time.Now()
	s.rows[a.AttendanceID] = *a
	return nil
}

func (s *AttendanceStore) Delete(_ context.Context, attendanceID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[attendanceID]
	delete(s.rows, attendanceID)
	return ok, nil
}

func (s *AttendanceStore) dayTaken(employeeID int64, day string, except int64) bool {
	for id, a := range s.rows {
		if id != except && a.EmployeeID == employeeID && a.Day == day {
			return true
		}
	}
	return false
}

func (s *AttendanceStore) filter(keep func(*model.Attendance) bool) []*model.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Attendance{}
	for _, a := range s.rows {
		a := a
		if keep(&a) {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

type PayrollStore struct {
	mu   sync.Mutex
	next int64
	rows map[int64]model.Payroll

	// FailCreate, when set, makes Create return its error for that employee.
	FailCreate map[int64]error
}

func NewPayrollStore() *PayrollStore {
	return &PayrollStore{rows: make(map[int64]model.Payroll)}
}

func (s *PayrollStore) Create(_ context.Context, p *model.Payroll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailCreate[p.EmployeeID]; err != nil {
		return err
	}
	s.next++
	if s.periodTaken(p.EmployeeID, p.PayPeriod, 0) {
		return store.ErrDuplicateKey
	}
	p.PayrollID = s.next
	p.ID = bson.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.rows[p.PayrollID] = *p
	return nil
}

func (s *PayrollStore) FindForPeriod(_ context.Context, employeeID int64, payPeriod string) (*model.Payroll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.EmployeeID == employeeID && p.PayPeriod == payPeriod {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *PayrollStore) Get(_ context.Context, payrollID int64) (*model.Payroll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[payrollID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *PayrollStore) List(_ context.Context) ([]*model.Payroll, error) {
	return s.filter(func(*model.Payroll) bool { return true }), nil
}

func (s *PayrollStore) ListByEmployee(_ context.Context, employeeID int64) ([]*model.Payroll, error) {
	return s.filter(func(p *model.Payroll) bool { return p.EmployeeID == employeeID }), nil
}

func (s *PayrollStore) ListByPeriod(_ context.Context, payPeriod string) ([]*model.Payroll, error) {
	return s.filter(func(p *model.Payroll) bool { return p.PayPeriod == payPeriod }), nil
}

func (s *PayrollStore) Update(_ context.Context, p *model.Payroll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.PayrollID]; !ok {
		return nil
	}
	if s.periodTaken(p.EmployeeID, p.PayPeriod, p.PayrollID) {
		return store.ErrDuplicateKey
	}
	p.UpdatedAt = time.Now()
	s.rows[p.PayrollID] = *p
	return nil
}

func (s *PayrollStore) Delete(_ context.Context, payrollID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[payrollID]
	delete(s.rows, payrollID)
	return ok, nil
}

func (s *PayrollStore) periodTaken(employeeID int64, payPeriod string, except int64) bool {
	for id, p := range s.rows {
		if id != except && p.EmployeeID == employeeID && p.PayPeriod == payPeriod {
			return true
		}
	}
	return false
}

func (s *PayrollStore) filter(keep func(*model.Payroll) bool) []*model.Payroll {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Payroll{}
	for _, p := range s.rows {
		p := p
		if keep(&p) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PayPeriod != out[j].PayPeriod {
			return out[i].PayPeriod > out[j].PayPeriod
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

type ItemStore struct {
	mu    sync.Mutex
	items map[bson.ObjectID]model.Item
	cart  map[bson.ObjectID]model.CartItem
}

func NewItemStore() *ItemStore {
	return &ItemStore{
		items: make(map[bson.ObjectID]model.Item),
		cart:  make(map[bson.ObjectID]model.CartItem),
	}
}

func (s *ItemStore) CreateItem(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = bson.NewObjectID()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	s.items[item.ID] = *item
	return nil
}

func (s *ItemStore) ListItems(_ context.Context) ([]*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Item, 0, len(s.items))
	for _, it := range s.items {
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ItemStore) GetItem(_ context.Context, id bson.ObjectID) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (s *ItemStore) UpdateItem(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		item.UpdatedAt = time.Now()
		s.items[item.ID] = *item
	}
	return nil
}

func (s *ItemStore) DeleteItem(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}

func (s *ItemStore) AddCartItem(_ context.Context, ci *model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ci.ID = bson.NewObjectID()
	ci.CreatedAt = time.Now()
	ci.UpdatedAt = ci.CreatedAt
	s.cart[ci.ID] = *ci
	return nil
}

func (s *ItemStore) ListCart(_ context.Context, userID string) ([]*model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.CartItem{}
	for _, ci := range s.cart {
		ci := ci
		if ci.UserID == userID {
			out = append(out, &ci)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *ItemStore) GetCartItem(_ context.Context, id bson.ObjectID) (*model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ci, ok := s.cart[id]
	if !ok {
		return nil, nil
	}
	return &ci, nil
}

func (s *ItemStore) UpdateCartItem(_ context.Context, ci *model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cart[ci.ID]; ok {
		ci.UpdatedAt = time.Now()
		s.cart[ci.ID] = *ci
	}
	return nil
}

func (s *ItemStore) DeleteCartItem(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cart[id]
	delete(s.cart, id)
	return ok, nil
}

func (s *ItemStore) ClearCart(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, ci := range s.cart {
		if ci.UserID == userID {
			delete(s.cart, id)
			n++
		}
	}
	return n, nil
}

type UserStore struct {
	mu   sync.Mutex
	rows map[bson.ObjectID]model.User
	seq  []bson.ObjectID
}

func NewUserStore() *UserStore {
	return &UserStore{rows: make(map[bson.ObjectID]model.User)}
}

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email, bson.NilObjectID) {
		return store.ErrDuplicateKey
	}
	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.rows[u.ID] = *u
	s.seq = append(s.seq, u.ID)
	return nil
}

func (s *UserStore) Get(_ context.Context, id bson.ObjectID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.findOne(func(u *model.User) bool { return u.Email == email }), nil
}

func (s *UserStore) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*model.User, error) {
	return s.findOne(func(u *model.User) bool {
		return u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now)
	}), nil
}

func (s *UserStore) List(_ context.Context) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.User, 0, len(s.seq))
	for _, id := range s.seq {
		if u, ok := s.rows[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[u.ID]; !ok {
		return nil
	}
	if s.emailTaken(u.Email, u.ID) {
		return store.ErrDuplicateKey
	}
	u.UpdatedAt = time.Now()
	s.rows[u.ID] = *u
	return nil
}

func (s *UserStore) Delete(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[id]
	delete(s.rows, id)
	return ok, nil
}

func (s *UserStore) findOne(match func(*model.User) bool) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.seq {
		u, ok := s.rows[id]
		if ok && match(&u) {
			return &u
		}
	}
	return nil
}

func (s *UserStore) emailTaken(email string, except bson.ObjectID) bool {
	for id, u := range s.rows {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

type FeedbackStore struct {
	mu   sync.Mutex
	next int64
	rows map[int64]model.Feedback
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{rows: make(map[int64]model.Feedback)}
}

func (s *FeedbackStore) Create(_ context.Context, f *model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	f.FeedbackID = s.next
	f.ID = bson.NewObjectID()
	f.UpdatedAt = time.Now()
	if f.Date.IsZero() {
		f.Date = f.UpdatedAt
	}
	s.rows[f.FeedbackID] = *f
	return nil
}

func (s *FeedbackStore) Get(_ context.Context, feedbackID int64) (*model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.rows[feedbackID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *FeedbackStore) List(_ context.Context) ([]*model.Feedback, error) {
	return s.filter(func(*model.Feedback) bool { return true }), nil
}

func (s *FeedbackStore) ListByCustomer(_ context.Context, customerID bson.ObjectID) ([]*model.Feedback, error) {
	return s.filter(func(f *model.Feedback) bool { return f.CustomerID == customerID }), nil
}

func (s *FeedbackStore) Update(_ context.Context, f *model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[f.FeedbackID]; ok {
		f.UpdatedAt = time.Now()
		s.rows[f.FeedbackID] = *f
	}
	return nil
}

func (s *FeedbackStore) Delete(_ context.Context, feedbackID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[feedbackID]
	delete(s.rows, feedbackID)
	return ok, nil
}

func (s *FeedbackStore) filter(keep func(*model.Feedback) bool) []*model.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Feedback{}
	for _, f := range s.rows {
		f := f
		if keep(&f) {
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].FeedbackID > out[j].FeedbackID
	})
	return out
}
