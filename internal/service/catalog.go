package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/online_store/internal/events"
	"github.com/Skotchmaster/online_store/internal/logging"
	"github.com/Skotchmaster/online_store/internal/models"
	"github.com/Skotchmaster/online_store/internal/repo"
	"github.com/Skotchmaster/online_store/internal/search"
	"github.com/Skotchmaster/online_store/internal/util"
)

type DeletePolicy string

const (
	DeleteCascade DeletePolicy = "cascade"
	DeleteKeep    DeletePolicy = "keep"
)

// CatalogService owns items and their images. Events and Index are optional;
// their failures are logged and never change the outcome of a store write.
type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  search.Indexer
	Policy DeletePolicy
}

func validateItem(item models.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return validationErr("name is required")
	}
	if item.Price < 0 {
		return validationErr("price cannot be negative")
	}
	return nil
}

func validateID(id int64) (uint, error) {
	if id <= 0 {
		return 0, validationErr("id must be positive")
	}
	return uint(id), nil
}

func (s *CatalogService) CreateItem(ctx context.Context, item models.Item) (*models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_item")

	if err := validateItem(item); err != nil {
		return nil, err
	}

	created := models.Item{Name: item.Name, Price: item.Price}
	if err := s.Repo.CreateItem(ctx, &created); err != nil {
		l.Error("create_item_failed", logAttrs(err)...)
		return nil, storageErr("create item", err)
	}

	s.publishItem(ctx, events.ItemCreated, created)
	s.indexItem(ctx, created)
	return &created, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	uid, err := validateID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.GetItem(ctx, uid)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		logging.FromContext(ctx).Error("get_item_failed", logAttrs(err)...)
		return nil, storageErr("get item", err)
	}
	return item, nil
}

func (s *CatalogService) GetAllItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.Repo.ListItems(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("get_all_items_failed", logAttrs(err)...)
		return nil, storageErr("list items", err)
	}
	return items, nil
}

// UpdateItem overwrites name and price. The id argument wins over item.ID.
func (s *CatalogService) UpdateItem(ctx context.Context, id int64, item models.Item) (*models.Item, error) {
	uid, err := validateID(id)
	if err != nil {
		return nil, err
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateItem(ctx, uid, item.Name, item.Price)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		logging.FromContext(ctx).Error("update_item_failed", logAttrs(err)...)
		return nil, storageErr("update item", err)
	}

	s.publishItem(ctx, events.ItemUpdated, *updated)
	s.indexItem(ctx, *updated)
	return updated, nil
}

// DeleteItem reports false when there was nothing to delete.
func (s *CatalogService) DeleteItem(ctx context.Context, id int64) (bool, error) {
	uid, err := validateID(id)
	if err != nil {
		return false, err
	}

	deleted, err := s.Repo.DeleteItem(ctx, uid, s.Policy != DeleteKeep)
	if err != nil {
		logging.FromContext(ctx).Error("delete_item_failed", logAttrs(err)...)
		return false, storageErr("delete item", err)
	}
	if !deleted {
		return false, nil
	}

	s.publishItem(ctx, events.ItemDeleted, models.Item{ID: uid})
	if s.Index != nil {
		if err := s.Index.DeleteItem(ctx, uid); err != nil {
			logging.FromContext(ctx).Warn("index_delete_failed", "item_id", uid, "error", err)
		}
	}
	return true, nil
}

func (s *CatalogService) ItemExists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	ok, err := s.Repo.ItemExists(ctx, uint(id))
	if err != nil {
		logging.FromContext(ctx).Error("item_exists_failed", logAttrs(err)...)
		return false, storageErr("item exists", err)
	}
	return ok, nil
}

// UploadImage appends data as a new image of the item. Empty data and a
// missing item both report false and write nothing.
func (s *CatalogService) UploadImage(ctx context.Context, itemID int64, data []byte) (bool, error) {
	uid, err := validateID(itemID)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}

	img, ok, err := s.Repo.AddImage(ctx, uid, data)
	if err != nil {
		logging.FromContext(ctx).Error("upload_image_failed", logAttrs(err)...)
		return false, storageErr("upload image", err)
	}
	if !ok {
		return false, nil
	}

	logging.FromContext(ctx).Debug("image_stored", "item_id", uid, "image_id", img.ID, "bytes", len(data))
	s.publishItem(ctx, events.ItemImageUploaded, models.Item{ID: uid})
	return true, nil
}

func (s *CatalogService) GetImage(ctx context.Context, itemID int64) (*models.ItemImage, error) {
	uid, err := validateID(itemID)
	if err != nil {
		return nil, err
	}

	img, err := s.Repo.FirstImage(ctx, uid)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		logging.FromContext(ctx).Error("get_image_failed", logAttrs(err)...)
		return nil, storageErr("get image", err)
	}
	return img, nil
}

func (s *CatalogService) SearchItems(ctx context.Context, query string, page, size int) (int64, []models.Item, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, 0, validationErr("query is required")
	}
	if s.Index == nil {
		return 0, nil, 0, ErrSearchUnavailable
	}

	offset, limit := util.Calculate(page, size)
	total, items, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search_items_failed", "error", err)
		return 0, nil, 0, storageErr("search items", err)
	}
	return total, items, limit, nil
}

// Reindex pushes every stored item into the search index.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, ErrSearchUnavailable
	}
	items, err := s.Repo.ListItems(ctx)
	if err != nil {
		return 0, storageErr("list items", err)
	}
	for i, it := range items {
		if err := s.Index.IndexItem(ctx, it); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

func (s *CatalogService) publishItem(ctx context.Context, typ string, item models.Item) {
	if s.Events == nil {
		return
	}
	ev := events.ItemEvent{Type: typ, ItemID: item.ID, Name: item.Name, Price: item.Price, At: time.Now().UTC()}
	if err := s.Events.Publish(ctx, strconv.FormatUint(uint64(item.ID), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_item_event_failed", "type", typ, "item_id", item.ID, "error", err)
	}
}

func (s *CatalogService) indexItem(ctx context.Context, item models.Item) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexItem(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("index_item_failed", "item_id", item.ID, "error", err)
	}
}
