package events

import (
	"context"
	"time"
)

const (
	ItemCreated       = "item_created"
	ItemUpdated       = "item_updated"
	ItemDeleted       = "item_deleted"
	ItemImageUploaded = "item_image_uploaded"

	CartLineSet     = "cart_line_set"
	CartLineRemoved = "cart_line_removed"
	CartCleared     = "cart_cleared"
)

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type ItemEvent struct {
	Type   string    `json:"type"`
	ItemID uint      `json:"itemId"`
	Name   string    `json:"name,omitempty"`
	Price  int64     `json:"price,omitempty"`
	At     time.Time `json:"at"`
}

type CartEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userID"`
	ItemID   uint      `json:"itemId,omitempty"`
	Quantity int       `json:"quantity,omitempty"`
	Removed  int64     `json:"removed,omitempty"`
	At       time.Time `json:"at"`
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
