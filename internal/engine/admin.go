package engine

import (
	"context"
	"fmt"

	"github.com/aditeya/ragtenant/internal/contact"
	"github.com/aditeya/ragtenant/internal/types"
)

// contactProbeQuery is the canned retrieval query the contact-info
// endpoint runs against the tenant's corpus: there is no user-supplied
// question for this endpoint, only tenant context, so it searches the
// corpus the way a visitor asking "how do I contact you" would.
const contactProbeQuery = "contact information"

// ContactInfo retrieves the tenant's best contact-bearing passages and
// runs the Contact Extractor (§4.B) over their combined text.
func (e *Engine) ContactInfo(ctx context.Context) (contact.Info, string, error) {
	docs, err := e.embedQuery(ctx, contactProbeQuery, maxPassages)
	if err != nil {
		return contact.Info{}, "", fmt.Errorf("retrieve contact passages: %w", err)
	}

	var combined string
	for _, d := range docs {
		combined += d.Document.Text + "\n"
	}

	info := contact.Extract(combined)
	formatted := contact.FormatResponse(info, contactProbeQuery)
	return info, formatted, nil
}

// ListLeads returns the tenant's captured leads, most recently updated
// first.
func (e *Engine) ListLeads(ctx context.Context, limit, offset int) ([]types.Lead, error) {
	return e.records.ListLeads(ctx, e.tenant.TenantID, limit, offset)
}

// CountLeads returns the number of leads captured for the tenant.
func (e *Engine) CountLeads(ctx context.Context) (int64, error) {
	return e.records.CountLeads(ctx, e.tenant.TenantID)
}

// CountDocuments returns the number of chunks indexed in the tenant's
// vector collection, reported back by /refresh-cache.
func (e *Engine) CountDocuments(ctx context.Context) (uint64, error) {
	return e.vectors.Count(ctx, e.collection)
}
