package resumes

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/resume/render"
)

// RenderCache stores rendered documents so unchanged resumes are not redrawn.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// ObjectCache is a RenderCache over an object store.
type ObjectCache struct {
	Store object.ObjectStore
}

func NewObjectCache(store object.ObjectStore) *ObjectCache {
	return &ObjectCache{Store: store}
}

func (c *ObjectCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	rc, err := c.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *ObjectCache) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.Store.Put(ctx, key, render.ContentTypePDF, bytes.NewReader(data))
	return err
}

func (c *ObjectCache) Delete(ctx context.Context, key string) error {
	return c.Store.Delete(ctx, key)
}

// renderKey changes whenever the resume is edited, so stale entries are never served.
func renderKey(r Resume) string {
	return fmt.Sprintf("renders/%s/resume-%d-%s-%d.pdf",
		ownerKey(r.UserID),
		r.ID,
		r.Content().TemplateStyle,
		r.UpdatedAt.UnixNano(),
	)
}

// ownerKey is an opaque per-user directory name for cached renders.
func ownerKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:16])
}
