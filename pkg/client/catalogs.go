package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/matiasvera/rifero/pkg/domain"
)

// Catalog rows arrive with per-catalog field prefixes (country_name,
// gender_code, ...). The helpers below translate between that wire
// shape and domain.CatalogItem using the catalog descriptor, so the
// admin screens drive every catalog through one code path.

// ListCatalog returns the rows of a catalog. parentID filters child
// catalogs (states by country, cities by state); pass 0 for no filter.
func (c *Client) ListCatalog(ctx context.Context, cat domain.Catalog, parentID int64) ([]domain.CatalogItem, error) {
	path := cat.Path
	if cat.ParentField != "" && parentID != 0 {
		params := url.Values{}
		params.Set(cat.ParentField, strconv.FormatInt(parentID, 10))
		path += "?" + params.Encode()
	}
	var rows []map[string]json.RawMessage
	if err := c.get(ctx, path, &rows); err != nil {
		return nil, fmt.Errorf("client.ListCatalog(%s): %w", cat.Key, err)
	}
	items := make([]domain.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, decodeCatalogItem(cat, row))
	}
	return items, nil
}

// CreateCatalogItem adds a row to a catalog.
func (c *Client) CreateCatalogItem(ctx context.Context, cat domain.Catalog, item domain.CatalogItem) (*domain.CatalogItem, error) {
	var row map[string]json.RawMessage
	if err := c.post(ctx, cat.Path, encodeCatalogItem(cat, item), &row); err != nil {
		return nil, fmt.Errorf("client.CreateCatalogItem(%s): %w", cat.Key, err)
	}
	created := decodeCatalogItem(cat, row)
	return &created, nil
}

// UpdateCatalogItem replaces a catalog row.
func (c *Client) UpdateCatalogItem(ctx context.Context, cat domain.Catalog, item domain.CatalogItem) error {
	path := cat.Path + strconv.FormatInt(item.ID, 10) + "/"
	if err := c.doRequest(ctx, "PUT", path, encodeCatalogItem(cat, item), nil); err != nil {
		return fmt.Errorf("client.UpdateCatalogItem(%s): %w", cat.Key, err)
	}
	return nil
}

// DeleteCatalogItem removes a catalog row.
func (c *Client) DeleteCatalogItem(ctx context.Context, cat domain.Catalog, id int64) error {
	path := cat.Path + strconv.FormatInt(id, 10) + "/"
	if err := c.doRequest(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCatalogItem(%s): %w", cat.Key, err)
	}
	return nil
}

func decodeCatalogItem(cat domain.Catalog, row map[string]json.RawMessage) domain.CatalogItem {
	item := domain.CatalogItem{Active: true}
	decode := func(key string, out any) {
		if raw, ok := row[key]; ok {
			json.Unmarshal(raw, out) //nolint:errcheck // absent or mistyped fields stay zero
		}
	}
	decode("id", &item.ID)
	decode(cat.Prefix+"_name", &item.Name)
	decode(cat.Prefix+"_code", &item.Code)
	decode(cat.Prefix+"_description", &item.Description)
	decode(cat.Prefix+"_is_active", &item.Active)
	if cat.ParentField != "" {
		decode(cat.ParentField, &item.ParentID)
	}
	return item
}

func encodeCatalogItem(cat domain.Catalog, item domain.CatalogItem) map[string]any {
	body := map[string]any{
		cat.Prefix + "_name":      item.Name,
		cat.Prefix + "_code":      item.Code,
		cat.Prefix + "_is_active": item.Active,
	}
	if item.Description != "" {
		body[cat.Prefix+"_description"] = item.Description
	}
	if cat.ParentField != "" && item.ParentID != 0 {
		body[cat.ParentField] = item.ParentID
	}
	return body
}
