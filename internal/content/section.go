// Package content implements the reconciliation model behind every editable
// portfolio section: compiled-in defaults, per-visitor draft snapshots, and
// authoritative remote rows merged into one ordered list.
package content

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

type StorageMode int

const (
	// StorageRows keeps one table row per item (certifications, skills).
	StorageRows StorageMode = iota
	// StorageSnapshot keeps the whole section as one serialized-array row.
	StorageSnapshot
)

type InsertPosition int

const (
	InsertAppend InsertPosition = iota
	InsertPrepend
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotOwner   = errors.New("mutation requires the owner")
	ErrNotFound   = errors.New("item not found")
)

// AssetRef points at one attached binary. Key is the storage key inside the
// section's bucket; URL is the resolved public URL (or a data URL for
// draft-only attachments that were never uploaded).
type AssetRef struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url,omitempty"`
}

// Item is one ordered entry of a section. IDs are remote-assigned once
// persisted; items that exist only as compiled defaults carry a synthetic
// "default-<section>-<index>" id.
type Item struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
	Asset  *AssetRef         `json:"asset,omitempty"`
}

func (i Item) Field(name string) string {
	return i.Fields[name]
}

func (i Item) clone() Item {
	out := Item{ID: i.ID, Fields: make(map[string]string, len(i.Fields))}
	for k, v := range i.Fields {
		out.Fields[k] = v
	}
	if i.Asset != nil {
		asset := *i.Asset
		out.Asset = &asset
	}
	return out
}

// AssetClass describes the one attachable binary kind of a section.
type AssetClass struct {
	Bucket      string
	Extensions  []string // lowercase, without dot
	AllowImages bool     // accept any image/* type in addition to Extensions
}

// Allows reports whether a file extension passes the section's allow-list.
func (c AssetClass) Allows(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return false
	}
	for _, allowed := range c.Extensions {
		if ext == allowed {
			return true
		}
	}
	if c.AllowImages {
		return strings.HasPrefix(mime.TypeByExtension("."+ext), "image/")
	}
	return false
}

// ContentType resolves the MIME type for an extension, defaulting to a
// generic byte stream for anything the platform table does not know.
func ContentType(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if typ := mime.TypeByExtension("." + ext); typ != "" {
		return typ
	}
	return "application/octet-stream"
}

// Section is the compile-time configuration of one editable content unit.
type Section struct {
	Key      string
	Label    string
	Mode     StorageMode
	Table    string   // row-mode table name
	Columns  []string // row-mode field-to-column mapping, in column order
	Required []string // display fields that must be non-empty on add/edit
	Insert   InsertPosition
	Asset    *AssetClass
	// FixedSlots sections (the hero image grid) never grow or shrink;
	// only their assets change.
	FixedSlots bool
	Defaults   []Item
}

// DefaultID is the synthetic identity of a compiled default that has never
// been written to the record store.
func DefaultID(sectionKey string, index int) string {
	return fmt.Sprintf("default-%s-%d", sectionKey, index)
}

// DefaultItems returns the compiled default list with synthetic ids assigned.
func (s Section) DefaultItems() []Item {
	items := make([]Item, 0, len(s.Defaults))
	for i, item := range s.Defaults {
		out := item.clone()
		if out.ID == "" {
			out.ID = DefaultID(s.Key, i)
		}
		items = append(items, out)
	}
	return items
}

// InsertInto places a new item per the section's insert convention.
func (s Section) InsertInto(items []Item, item Item) []Item {
	if s.Insert == InsertPrepend {
		return append([]Item{item}, items...)
	}
	return append(items, item)
}

// Validate checks the section's required display fields.
func (s Section) Validate(item Item) error {
	for _, field := range s.Required {
		if strings.TrimSpace(item.Field(field)) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}
	return nil
}
