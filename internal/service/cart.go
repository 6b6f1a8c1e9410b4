package service

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/online_store/internal/events"
	"github.com/Skotchmaster/online_store/internal/logging"
	"github.com/Skotchmaster/online_store/internal/models"
	"github.com/Skotchmaster/online_store/internal/repo"
)

// CartService keeps at most one line per (user, item). It does not look up
// items; callers check item existence before adding.
type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func validateCartKey(userID string, itemID int64) error {
	if strings.TrimSpace(userID) == "" {
		return validationErr("user id is required")
	}
	if itemID <= 0 {
		return validationErr("item id must be positive")
	}
	return nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationErr("user id is required")
	}
	lines, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_failed", logAttrs(err)...)
		return nil, storageErr("get cart", err)
	}
	return lines, nil
}

// AddToCart sets the quantity of the (userID, itemID) line, creating it when
// absent. Repeated adds overwrite, they do not accumulate.
func (s *CartService) AddToCart(ctx context.Context, userID string, itemID int64, quantity int) (*models.CartLine, error) {
	if err := validateCartKey(userID, itemID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, validationErr("quantity must be at least 1")
	}

	line, err := s.Repo.UpsertCartLine(ctx, userID, uint(itemID), quantity)
	if err != nil {
		logging.FromContext(ctx).Error("add_to_cart_failed", logAttrs(err)...)
		return nil, storageErr("add to cart", err)
	}

	s.publish(ctx, events.CartEvent{Type: events.CartLineSet, UserID: userID, ItemID: line.ItemID, Quantity: line.Quantity})
	return line, nil
}

// RemoveFromCart deletes the line when quantity is 0 and otherwise sets its
// quantity. False when the user has no line for itemID.
func (s *CartService) RemoveFromCart(ctx context.Context, userID string, itemID int64, quantity int) (bool, error) {
	if err := validateCartKey(userID, itemID); err != nil {
		return false, err
	}
	if quantity < 0 {
		return false, validationErr("quantity cannot be negative")
	}

	var (
		ok  bool
		err error
		typ string
	)
	if quantity == 0 {
		ok, err = s.Repo.DeleteCartLine(ctx, userID, uint(itemID))
		typ = events.CartLineRemoved
	} else {
		ok, err = s.Repo.SetCartLineQuantity(ctx, userID, uint(itemID), quantity)
		typ = events.CartLineSet
	}
	if err != nil {
		logging.FromContext(ctx).Error("remove_from_cart_failed", logAttrs(err)...)
		return false, storageErr("remove from cart", err)
	}
	if !ok {
		return false, nil
	}

	s.publish(ctx, events.CartEvent{Type: typ, UserID: userID, ItemID: uint(itemID), Quantity: quantity})
	return true, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, validationErr("user id is required")
	}
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("clear_cart_failed", logAttrs(err)...)
		return 0, storageErr("clear cart", err)
	}
	if n > 0 {
		s.publish(ctx, events.CartEvent{Type: events.CartCleared, UserID: userID, Removed: n})
	}
	return n, nil
}

func (s *CartService) publish(ctx context.Context, ev events.CartEvent) {
	if s.Events == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := s.Events.Publish(ctx, ev.UserID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_cart_event_failed", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}
