// Package types defines the data model shared across the retrieval engine,
// the crawl pipeline, and the edge surface: tenants, vector documents,
// leads, url-tracking records, and session state.
package types

import "time"

// TenantConfig identifies one tenant's storage coordinates. The pair
// (VectorStorePath, RecordStoreURI) is the tenant registry's cache key:
// two requests with the same pair resolve to the same cached Engine.
type TenantConfig struct {
	TenantID         string
	VectorStorePath  string // Qdrant collection name for this tenant
	RecordStoreURI   string // Postgres schema or DSN suffix for this tenant
	BaseURL          string // root site URL this tenant's content is crawled from
	DisplayName      string
}

// VectorDocument is one chunk stored in (and retrieved from) the vector
// store, per §3's data model.
type VectorDocument struct {
	ID        string
	Text      string
	URL       string
	Title     string
	Metadata  map[string]interface{}
	Embedding []float32
}

// ScoredDocument pairs a VectorDocument with the score assigned to it by
// a particular retrieval or reranking stage.
type ScoredDocument struct {
	Document VectorDocument
	Score    float32
}

// URLTrackingRecord is one row of a tenant's url_tracking table,
// used by the crawl pipeline's change-detection pass.
type URLTrackingRecord struct {
	URL         string
	ContentHash string
	LastCrawled time.Time
	LastChanged time.Time
}

// ChangeKind classifies a crawled URL against its tracking record.
type ChangeKind string

const (
	ChangeNew       ChangeKind = "new"
	ChangeModified  ChangeKind = "modified"
	ChangeUnchanged ChangeKind = "unchanged"
)

// LeadStatus tracks how much of a lead's contact info has been collected.
type LeadStatus string

const (
	LeadStatusPartial        LeadStatus = "partial"
	LeadStatusPhoneCollected LeadStatus = "phone_collected"
	LeadStatusComplete       LeadStatus = "complete"
	LeadStatusUpdated        LeadStatus = "updated"
)

// Lead is one row of a tenant's leads collection, per §3 and §4.A/§4.B.
type Lead struct {
	ID          string
	TenantID    string
	SessionID   string
	Name        string
	Phone       string
	Email       string
	Status      LeadStatus
	SourceQuery string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
