package content

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"portfolio/api/internal/authz"
)

// RecordStore is the remote row capability backing a section. Row-mode
// sections map to a table; snapshot sections map to one serialized-array row.
type RecordStore interface {
	ListItems(ctx context.Context, section Section) ([]Item, error)
	GetItem(ctx context.Context, section Section, itemID string) (Item, error)
	InsertItem(ctx context.Context, section Section, ownerID string, item Item) (string, error)
	UpdateItemFields(ctx context.Context, section Section, itemID string, fields map[string]string) error
	UpdateItemAsset(ctx context.Context, section Section, itemID string, asset *AssetRef) error
	DeleteItem(ctx context.Context, section Section, itemID string) (bool, error)
}

// BlobStore is the binary asset capability.
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
	KeyFromURL(rawURL string) (bucket, key string, ok bool)
}

// DraftStore holds per-visitor full-array snapshots, used only until
// authoritative remote rows exist.
type DraftStore interface {
	Load(ctx context.Context, visitorID, sectionKey string) ([]Item, bool, error)
	Save(ctx context.Context, visitorID, sectionKey string, items []Item) error
	Discard(ctx context.Context, visitorID, sectionKey string) error
}

// Draft-only attachments are embedded as data URLs, so keep them small.
const maxDraftAssetBytes = 8 << 20

// DeleteOutcome tags the result of the two-phase delete (blob first, then
// row), so callers can surface orphaned blobs instead of silently leaking.
type DeleteOutcome int

const (
	DeleteClean DeleteOutcome = iota
	DeleteOrphanedBlob
)

// Reconciler merges compiled defaults, visitor drafts, and remote rows into
// one ordered list per section, and writes mutations through to the stores.
type Reconciler struct {
	records RecordStore
	blobs   BlobStore
	drafts  DraftStore
	now     func() time.Time
}

func New(records RecordStore, blobs BlobStore, drafts DraftStore) *Reconciler {
	return &Reconciler{
		records: records,
		blobs:   blobs,
		drafts:  drafts,
		now:     time.Now,
	}
}

// Load produces the displayed list for one section. Remote rows win; with no
// rows the visitor's draft snapshot applies; with neither the compiled
// defaults render. A failed remote read degrades to the next source rather
// than returning an empty list.
func (r *Reconciler) Load(ctx context.Context, section Section, viewer authz.Context) ([]Item, error) {
	remote, err := r.records.ListItems(ctx, section)
	if err != nil {
		log.Printf("content: remote read failed for %s: %v", section.Key, err)
	}
	if len(remote) > 0 {
		// Remote is authoritative; the draft is stale the moment rows exist.
		if viewer.ViewerID != "" {
			_ = r.drafts.Discard(ctx, viewer.ViewerID, section.Key)
		}
		return r.resolve(section, remote), nil
	}

	if err == nil && section.Mode == StorageRows && viewer.CanEdit() && len(section.Defaults) > 0 {
		if seeded, seedErr := r.seedDefaults(ctx, section, viewer.ViewerID); seedErr == nil {
			return seeded, nil
		} else {
			log.Printf("content: seeding defaults for %s failed: %v", section.Key, seedErr)
		}
	}

	if viewer.ViewerID != "" {
		draft, ok, draftErr := r.drafts.Load(ctx, viewer.ViewerID, section.Key)
		if draftErr != nil {
			log.Printf("content: draft read failed for %s: %v", section.Key, draftErr)
		} else if ok {
			return r.resolve(section, draft), nil
		}
	}

	return section.DefaultItems(), nil
}

// seedDefaults writes the compiled defaults through to the record store the
// first time the owner loads an empty row-mode section, then re-reads.
func (r *Reconciler) seedDefaults(ctx context.Context, section Section, ownerID string) ([]Item, error) {
	for _, item := range section.Defaults {
		item.ID = ""
		if _, err := r.records.InsertItem(ctx, section, ownerID, item); err != nil {
			return nil, fmt.Errorf("seed %s: %w", section.Key, err)
		}
	}
	return r.reload(ctx, section)
}

// Add inserts one item and reloads from remote (read-after-write, never an
// in-memory append).
func (r *Reconciler) Add(ctx context.Context, section Section, viewer authz.Context, item Item) ([]Item, error) {
	if !viewer.CanEdit() {
		return nil, ErrNotOwner
	}
	if section.FixedSlots {
		return nil, fmt.Errorf("%w: %s has a fixed set of slots", ErrValidation, section.Key)
	}
	if err := section.Validate(item); err != nil {
		return nil, err
	}
	item.ID = ""
	item.Asset = nil
	if _, err := r.records.InsertItem(ctx, section, viewer.ViewerID, item); err != nil {
		return nil, fmt.Errorf("insert %s item: %w", section.Key, err)
	}
	return r.reload(ctx, section)
}

// Edit replaces one item's display fields in place.
func (r *Reconciler) Edit(ctx context.Context, section Section, viewer authz.Context, itemID string, fields map[string]string) ([]Item, error) {
	if !viewer.CanEdit() {
		return nil, ErrNotOwner
	}
	if err := section.Validate(Item{Fields: fields}); err != nil {
		return nil, err
	}
	if err := r.records.UpdateItemFields(ctx, section, itemID, fields); err != nil {
		return nil, fmt.Errorf("update %s item: %w", section.Key, err)
	}
	return r.reload(ctx, section)
}

// Delete removes one item. If the item carries an asset, the blob is deleted
// first, best-effort; a blob failure never blocks the row removal but is
// reported as DeleteOrphanedBlob. A row-delete failure aborts.
func (r *Reconciler) Delete(ctx context.Context, section Section, viewer authz.Context, itemID string) (DeleteOutcome, []Item, error) {
	if !viewer.CanEdit() {
		return DeleteClean, nil, ErrNotOwner
	}
	item, err := r.records.GetItem(ctx, section, itemID)
	if err != nil {
		return DeleteClean, nil, err
	}

	orphaned := false
	if bucket, key, ok := r.assetLocation(section, item.Asset); ok {
		if removeErr := r.blobs.Remove(ctx, bucket, key); removeErr != nil {
			log.Printf("content: blob delete failed for %s/%s: %v", bucket, key, removeErr)
			orphaned = true
		}
	}

	deleted, err := r.records.DeleteItem(ctx, section, itemID)
	if err != nil {
		return DeleteClean, nil, fmt.Errorf("delete %s item: %w", section.Key, err)
	}
	if !deleted {
		return DeleteClean, nil, ErrNotFound
	}

	items, err := r.reload(ctx, section)
	if err != nil {
		return DeleteClean, nil, err
	}
	outcome := DeleteClean
	if orphaned {
		outcome = DeleteOrphanedBlob
	}
	return outcome, items, nil
}

// AttachAsset uploads a binary for one item. Owner sessions write through to
// the blob and record stores; anonymous sessions persist the file into the
// visitor's draft snapshot as a data URL, the local-only fallback.
func (r *Reconciler) AttachAsset(ctx context.Context, section Section, viewer authz.Context, itemID, filename string, body io.Reader, size int64) ([]Item, error) {
	if section.Asset == nil {
		return nil, fmt.Errorf("%w: %s does not accept attachments", ErrValidation, section.Key)
	}
	ext := normalizeExt(filename)
	if !section.Asset.Allows(ext) {
		return nil, fmt.Errorf("%w: file type .%s is not allowed for %s", ErrValidation, ext, section.Key)
	}

	if !viewer.CanEdit() {
		return r.attachToDraft(ctx, section, viewer.ViewerID, itemID, ext, body)
	}

	if _, err := r.records.GetItem(ctx, section, itemID); err != nil {
		return nil, err
	}
	key := AssetKey(section.Key, itemID, r.now(), ext)
	url, err := r.blobs.Put(ctx, section.Asset.Bucket, key, body, size, ContentType(ext))
	if err != nil {
		return nil, fmt.Errorf("upload %s asset: %w", section.Key, err)
	}
	if err := r.records.UpdateItemAsset(ctx, section, itemID, &AssetRef{Key: key, URL: url}); err != nil {
		return nil, fmt.Errorf("persist %s asset: %w", section.Key, err)
	}
	return r.reload(ctx, section)
}

// DetachAsset deletes the blob behind an item's asset reference and clears
// the field. The storage key is recovered from the public URL when only the
// URL was persisted.
func (r *Reconciler) DetachAsset(ctx context.Context, section Section, viewer authz.Context, itemID string) ([]Item, error) {
	if !viewer.CanEdit() {
		return r.detachFromDraft(ctx, section, viewer.ViewerID, itemID)
	}

	item, err := r.records.GetItem(ctx, section, itemID)
	if err != nil {
		return nil, err
	}
	if bucket, key, ok := r.assetLocation(section, item.Asset); ok {
		if removeErr := r.blobs.Remove(ctx, bucket, key); removeErr != nil {
			log.Printf("content: blob delete failed for %s/%s: %v", bucket, key, removeErr)
		}
	}
	if err := r.records.UpdateItemAsset(ctx, section, itemID, nil); err != nil {
		return nil, fmt.Errorf("clear %s asset: %w", section.Key, err)
	}
	return r.reload(ctx, section)
}

// SaveDraft replaces the visitor's full-array snapshot for one section.
func (r *Reconciler) SaveDraft(ctx context.Context, section Section, visitorID string, items []Item) error {
	if visitorID == "" {
		return fmt.Errorf("%w: visitor id is required for drafts", ErrValidation)
	}
	if err := r.drafts.Save(ctx, visitorID, section.Key, items); err != nil {
		return fmt.Errorf("save %s draft: %w", section.Key, err)
	}
	return nil
}

// reload is the read-after-write path: always the remote list, errors
// propagated instead of degraded.
func (r *Reconciler) reload(ctx context.Context, section Section) ([]Item, error) {
	items, err := r.records.ListItems(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", section.Key, err)
	}
	if items == nil {
		items = []Item{}
	}
	return r.resolve(section, items), nil
}

// resolve fills in public URLs for items persisted with a bare storage key.
func (r *Reconciler) resolve(section Section, items []Item) []Item {
	if section.Asset == nil {
		return items
	}
	out := make([]Item, len(items))
	for i, item := range items {
		resolved := item.clone()
		if resolved.Asset != nil && resolved.Asset.Key != "" && resolved.Asset.URL == "" {
			resolved.Asset.URL = r.blobs.PublicURL(section.Asset.Bucket, resolved.Asset.Key)
		}
		out[i] = resolved
	}
	return out
}

func (r *Reconciler) attachToDraft(ctx context.Context, section Section, visitorID, itemID, ext string, body io.Reader) ([]Item, error) {
	if visitorID == "" {
		return nil, ErrNotOwner
	}
	items, err := r.draftOrDefaults(ctx, section, visitorID)
	if err != nil {
		return nil, err
	}
	index := indexOf(items, itemID)
	if index < 0 {
		return nil, ErrNotFound
	}
	data, err := io.ReadAll(io.LimitReader(body, maxDraftAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read draft asset: %w", err)
	}
	if len(data) > maxDraftAssetBytes {
		return nil, fmt.Errorf("%w: draft attachments are limited to %d bytes", ErrValidation, maxDraftAssetBytes)
	}
	items[index].Asset = &AssetRef{
		URL: "data:" + ContentType(ext) + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	if err := r.drafts.Save(ctx, visitorID, section.Key, items); err != nil {
		return nil, fmt.Errorf("save %s draft: %w", section.Key, err)
	}
	return items, nil
}

func (r *Reconciler) detachFromDraft(ctx context.Context, section Section, visitorID, itemID string) ([]Item, error) {
	if visitorID == "" {
		return nil, ErrNotOwner
	}
	items, err := r.draftOrDefaults(ctx, section, visitorID)
	if err != nil {
		return nil, err
	}
	index := indexOf(items, itemID)
	if index < 0 {
		return nil, ErrNotFound
	}
	items[index].Asset = nil
	if err := r.drafts.Save(ctx, visitorID, section.Key, items); err != nil {
		return nil, fmt.Errorf("save %s draft: %w", section.Key, err)
	}
	return items, nil
}

func (r *Reconciler) draftOrDefaults(ctx context.Context, section Section, visitorID string) ([]Item, error) {
	draft, ok, err := r.drafts.Load(ctx, visitorID, section.Key)
	if err != nil {
		return nil, fmt.Errorf("load %s draft: %w", section.Key, err)
	}
	if ok {
		return draft, nil
	}
	return section.DefaultItems(), nil
}

// assetLocation resolves an asset reference to bucket and storage key,
// falling back to stripping the public-URL prefix for rows that only
// persisted the resolved URL.
func (r *Reconciler) assetLocation(section Section, asset *AssetRef) (bucket, key string, ok bool) {
	if asset == nil || section.Asset == nil {
		return "", "", false
	}
	if asset.Key != "" {
		return section.Asset.Bucket, asset.Key, true
	}
	if asset.URL != "" {
		return r.blobs.KeyFromURL(asset.URL)
	}
	return "", "", false
}

// AssetKey builds the storage key for an uploaded binary. The item id and
// timestamp keep keys collision-free and prior versions listable.
func AssetKey(sectionKey, itemID string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%s-%d.%s", sectionKey, itemID, at.Unix(), ext)
}

func normalizeExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return ""
	}
	return ext[1:]
}

func indexOf(items []Item, itemID string) int {
	for i, item := range items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// IsValidation reports whether an error is a user-facing validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
