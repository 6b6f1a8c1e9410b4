package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_store/internal/logging"
	"github.com/Skotchmaster/online_store/internal/models"
	"github.com/Skotchmaster/online_store/internal/service"
	"github.com/Skotchmaster/online_store/internal/transport"
	"github.com/Skotchmaster/online_store/internal/util"
)

type ItemHTTP struct {
	Svc *service.CatalogService
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id %d is not positive", id)
	}
	return id, nil
}

func (h *ItemHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.create_item")

	var req transport.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Supply item to be created.")
	}

	item, err := h.Svc.CreateItem(ctx, models.Item{Name: req.Name, Price: req.Price})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_item_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create item")
	}

	l.Info("create_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.get_item")

	id, err := pathID(c)
	if err != nil {
		l.Warn("get_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide valid id.")
	}

	item, err := h.Svc.GetItem(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Please provide valid id.")
		}
		l.Error("get_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get item")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *ItemHTTP) GetAllItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.get_all_items")

	items, err := h.Svc.GetAllItems(ctx)
	if err != nil {
		l.Error("get_all_items_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get items")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ItemHTTP) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.search_items")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, limit, err := h.Svc.SearchItems(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
		case errors.Is(err, service.ErrSearchUnavailable):
			l.Warn("search_items_failed", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
		}
		l.Error("search_items_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * limit
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *ItemHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.update_item")

	id, err := pathID(c)
	if err != nil {
		l.Warn("update_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide valid id.")
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ItemID != id {
		l.Warn("update_item_failed", "status", 400, "reason", "id mismatch", "path_id", id, "body_id", req.ItemID)
		return echo.NewHTTPError(http.StatusBadRequest, "Item ID in the URL does not match the ID in the request body.")
	}

	item, err := h.Svc.UpdateItem(ctx, id, models.Item{Name: req.Name, Price: req.Price})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("update_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update item")
	}

	l.Info("update_item_success", "item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.delete_item")

	id, err := pathID(c)
	if err != nil {
		l.Warn("delete_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Provide valid item Id.")
	}

	deleted, err := h.Svc.DeleteItem(ctx, id)
	if err != nil {
		l.Error("delete_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete item")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}

	l.Info("delete_item_success", "item_id", id)
	return c.NoContent(http.StatusNoContent)
}

// UploadImage reads the multipart field "image". A missing or empty file is
// treated like a missing item.
func (h *ItemHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.upload_image")

	id, err := pathID(c)
	if err != nil {
		l.Warn("upload_image_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide a valid item id.")
	}

	var data []byte
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			l.Error("upload_image_failed", "status", 500, "reason", "cannot open upload", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read image")
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			l.Error("upload_image_failed", "status", 500, "reason", "cannot read upload", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read image")
		}
	}

	ok, err := h.Svc.UploadImage(ctx, id, data)
	if err != nil {
		l.Error("upload_image_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}
	if !ok {
		l.Warn("upload_image_failed", "status", 404, "bytes", len(data))
		return echo.NewHTTPError(http.StatusNotFound, "item not found or image empty")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ItemHTTP) GetImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.get_image")

	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide a valid item id.")
	}

	img, err := h.Svc.GetImage(ctx, id)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		l.Error("get_image_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get image")
	}
	if img == nil || len(img.Data) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("ItemId %d image not found.", id))
	}

	return c.Blob(http.StatusOK, "image/jpeg", img.Data)
}
