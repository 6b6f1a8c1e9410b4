package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/online_store/internal/models"
)

type Indexer interface {
	IndexItem(ctx context.Context, item models.Item) error
	DeleteItem(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Item, error)
}

var ErrIndex = errors.New("search index")

const itemMapping = `{
  "mappings": {
    "properties": {
      "itemId": {"type": "long"},
      "name":   {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "price":  {"type": "long"}
    }
  }
}`

type ESIndex struct {
	Client *elasticsearch.Client
	Index  string
}

// EnsureIndex creates the item index with its mapping unless it exists.
func (s *ESIndex) EnsureIndex(ctx context.Context) error {
	res, err := s.Client.Indices.Exists([]string{s.Index}, s.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: exists: %w", ErrIndex, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.Client.Indices.Create(s.Index,
		s.Client.Indices.Create.WithContext(ctx),
		s.Client.Indices.Create.WithBody(bytes.NewReader([]byte(itemMapping))),
	)
	if err != nil {
		return fmt.Errorf("%w: create: %w", ErrIndex, err)
	}
	return checkResponse(res, "create")
}

func (s *ESIndex) IndexItem(ctx context.Context, item models.Item) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrIndex, err)
	}
	res, err := s.Client.Index(s.Index, bytes.NewReader(body),
		s.Client.Index.WithContext(ctx),
		s.Client.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("%w: index: %w", ErrIndex, err)
	}
	return checkResponse(res, "index")
}

// DeleteItem removes the document. A missing document is not an error.
func (s *ESIndex) DeleteItem(ctx context.Context, id uint) error {
	res, err := s.Client.Delete(s.Index, strconv.FormatUint(uint64(id), 10),
		s.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: delete: %w", ErrIndex, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete")
}

func (s *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Item, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"name": map[string]any{
					"query":     query,
					"fuzziness": "AUTO",
				},
			},
		},
		"sort": []any{"_score", map[string]any{"itemId": "asc"}},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("%w: encode: %w", ErrIndex, err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: search: %w", ErrIndex, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("%w: search: %s: %s", ErrIndex, res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("%w: decode: %w", ErrIndex, err)
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%w: %s: %s: %s", ErrIndex, op, res.Status(), msg)
	}
	return nil
}
