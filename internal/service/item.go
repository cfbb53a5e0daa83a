package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitpharm-api/internal/model"
)

type ItemService struct {
	store ItemStore
}

func NewItemService(store ItemStore) *ItemService {
	return &ItemService{store: store}
}

type CreateItemInput struct {
	Name            string   `json:"name" validate:"required"`
	UnitPrice       *float64 `json:"unitPrice" validate:"omitnil,gte=0"`
	PackPrice       *float64 `json:"packPrice" validate:"required,gte=0"`
	Quantity        *int     `json:"quantity" validate:"required,gte=0"`
	Image           string   `json:"image" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	ManufactureDate string   `json:"manufactureDate" validate:"required"`
	ExpiryDate      string   `json:"expiryDate" validate:"required"`
	Size            string   `json:"size"`
	Flavor          string   `json:"flavor"`
}

// UpdateItemInput is a partial update. ClearUnitPrice sets unit price back to null.
type UpdateItemInput struct {
	Name            *string  `json:"name" validate:"omitnil,min=1"`
	UnitPrice       *float64 `json:"unitPrice" validate:"omitnil,gte=0"`
	ClearUnitPrice  bool     `json:"clearUnitPrice"`
	PackPrice       *float64 `json:"packPrice" validate:"omitnil,gte=0"`
	Quantity        *int     `json:"quantity" validate:"omitnil,gte=0"`
	Image           *string  `json:"image" validate:"omitnil,min=1"`
	Description     *string  `json:"description" validate:"omitnil,min=1"`
	ManufactureDate *string  `json:"manufactureDate"`
	ExpiryDate      *string  `json:"expiryDate"`
	Size            *string  `json:"size"`
	Flavor          *string  `json:"flavor"`
}

type AddCartItemInput struct {
	UserID   string   `json:"userId" validate:"required"`
	ItemName string   `json:"itemName" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity int      `json:"quantity" validate:"required,gte=1"`
	Image    string   `json:"image" validate:"required"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func (s *ItemService) Create(ctx context.Context, in CreateItemInput) (*model.Item, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	mfd, ok := parseDate(in.ManufactureDate)
	if !ok {
		return nil, fieldError("manufactureDate", "date")
	}
	exp, ok := parseDate(in.ExpiryDate)
	if !ok {
		return nil, fieldError("expiryDate", "date")
	}

	item := &model.Item{
		Name:            strings.TrimSpace(in.Name),
		UnitPrice:       in.UnitPrice,
		PackPrice:       *in.PackPrice,
		Quantity:        *in.Quantity,
		Image:           in.Image,
		Description:     in.Description,
		ManufactureDate: mfd.UTC(),
		ExpiryDate:      exp.UTC(),
		Size:            in.Size,
		Flavor:          in.Flavor,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context) ([]*model.Item, error) {
	return s.store.ListItems(ctx)
}

func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	oid, err := parseObjectID(id, "item.not_found")
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, notFound("item.not_found", map[string]any{"ID": id})
	}
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, id string, in UpdateItemInput) (*model.Item, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	switch {
	case in.ClearUnitPrice:
		item.UnitPrice = nil
	case in.UnitPrice != nil:
		item.UnitPrice = in.UnitPrice
	}
	if in.PackPrice != nil {
		item.PackPrice = *in.PackPrice
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.ManufactureDate != nil {
		if item.ManufactureDate, err = parseItemDate("manufactureDate", *in.ManufactureDate); err != nil {
			return nil, err
		}
	}
	if in.ExpiryDate != nil {
		if item.ExpiryDate, err = parseItemDate("expiryDate", *in.ExpiryDate); err != nil {
			return nil, err
		}
	}
	if in.Size != nil {
		item.Size = *in.Size
	}
	if in.Flavor != nil {
		item.Flavor = *in.Flavor
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "item.not_found")
	if err != nil {
		return err
	}
	ok, err := s.store.DeleteItem(ctx, oid)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !ok {
		return notFound("item.not_found", map[string]any{"ID": id})
	}
	return nil
}

// AddToCart stores a cart line as sent. The catalogue is not consulted.
func (s *ItemService) AddToCart(ctx context.Context, in AddCartItemInput) (*model.CartItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	ci := &model.CartItem{
		UserID:   in.UserID,
		ItemName: in.ItemName,
		Price:    *in.Price,
		Quantity: in.Quantity,
		Image:    in.Image,
	}
	if err := s.store.AddCartItem(ctx, ci); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return ci, nil
}

func (s *ItemService) Cart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	return s.store.ListCart(ctx, userID)
}

func (s *ItemService) UpdateCartItem(ctx context.Context, id string, in UpdateCartItemInput) (*model.CartItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	oid, err := parseObjectID(id, "cart.not_found")
	if err != nil {
		return nil, err
	}
	ci, err := s.store.GetCartItem(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	if ci == nil {
		return nil, notFound("cart.not_found", map[string]any{"ID": id})
	}
	ci.Quantity = in.Quantity
	if err := s.store.UpdateCartItem(ctx, ci); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return ci, nil
}

func (s *ItemService) RemoveFromCart(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "cart.not_found")
	if err != nil {
		return err
	}
	ok, err := s.store.DeleteCartItem(ctx, oid)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if !ok {
		return notFound("cart.not_found", map[string]any{"ID": id})
	}
	return nil
}

func (s *ItemService) ClearCart(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.ClearCart(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return n, nil
}

func parseItemDate(field, value string) (time.Time, error) {
	t, ok := parseDate(value)
	if !ok {
		return time.Time{}, fieldError(field, "date")
	}
	return t.UTC(), nil
}
