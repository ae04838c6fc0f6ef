package crawler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/types"
)

// ContentHash returns the stable SHA-256 digest of a page's cleaned text,
// used as the spider's sole hash authority (the downstream Mongo
// tracking pass of the original is a disabled passthrough — see
// DESIGN.md's Open Question #1).
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// DetectChange looks up url's previous tracking record and classifies it
// as new, modified, or unchanged against its freshly computed hash,
// updating the record either way so LastCrawled always reflects the
// most recent visit.
func DetectChange(ctx context.Context, records *recordstore.Store, url, text string) (types.ChangeKind, error) {
	hash := ContentHash(text)
	now := time.Now()

	existing, err := records.GetURLTracking(ctx, url)
	if err != nil {
		return "", err
	}

	var kind types.ChangeKind
	lastChanged := now
	switch {
	case existing == nil:
		kind = types.ChangeNew
	case existing.ContentHash == hash:
		kind = types.ChangeUnchanged
		lastChanged = existing.LastChanged
	default:
		kind = types.ChangeModified
	}

	if err := records.UpsertURLTracking(ctx, types.URLTrackingRecord{
		URL:         url,
		ContentHash: hash,
		LastCrawled: now,
		LastChanged: lastChanged,
	}); err != nil {
		return "", err
	}
	return kind, nil
}
