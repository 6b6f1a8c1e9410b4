package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_store/internal/logging"
	authmw "github.com/Skotchmaster/online_store/internal/middleware/auth"
	"github.com/Skotchmaster/online_store/internal/service"
	"github.com/Skotchmaster/online_store/internal/transport"
)

type CartHTTP struct {
	Svc     *service.CartService
	Users   *service.UserService
	Catalog *service.CatalogService
}

// currentUser resolves the authenticated subject and checks that the user
// still exists. A non-nil error is ready to be returned from the handler.
func (h *CartHTTP) currentUser(c echo.Context, l *slog.Logger) (string, error) {
	userID, ok := authmw.UserID(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	exists, err := h.Users.Exists(c.Request().Context(), userID)
	if err != nil {
		l.Error("user_check_failed", "status", 500, "error", err)
		return "", echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		l.Warn("user_check_failed", "status", 404, "user_id", userID)
		return "", echo.NewHTTPError(http.StatusNotFound, "User not found.")
	}
	return userID, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := h.currentUser(c, l)
	if err != nil {
		return err
	}

	lines, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if len(lines) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Shopping cart is empty.")
	}

	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Provide an item to add.")
	}

	userID, err := h.currentUser(c, l)
	if err != nil {
		return err
	}

	if req.ItemID > 0 {
		exists, err := h.Catalog.ItemExists(ctx, req.ItemID)
		if err != nil {
			l.Error("add_to_cart_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		if !exists {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found.")
		}
	}

	if _, err := h.Svc.AddToCart(ctx, userID, req.ItemID, req.Quantity); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("add_to_cart_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, true)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_from_cart_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Provide an item to remove.")
	}

	userID, err := h.currentUser(c, l)
	if err != nil {
		return err
	}

	removed, err := h.Svc.RemoveFromCart(ctx, userID, req.ItemID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("remove_from_cart_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !removed {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to remove item from the cart.")
	}

	return c.JSON(http.StatusOK, true)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID, err := h.currentUser(c, l)
	if err != nil {
		return err
	}

	n, err := h.Svc.ClearCart(ctx, userID)
	if err != nil {
		l.Error("clear_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("clear_cart_success", "removed", n)
	return c.JSON(http.StatusOK, transport.ClearCartResponse{Removed: n})
}
