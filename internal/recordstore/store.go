package recordstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aditeya/ragtenant/internal/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// leadRow is the gorm model backing the leads table.
type leadRow struct {
	ID          string `gorm:"primaryKey"`
	TenantID    string `gorm:"index"`
	SessionID   string `gorm:"index"`
	Name        string
	Phone       string
	Email       string
	Status      string
	SourceQuery string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (leadRow) TableName() string { return "leads" }

// urlTrackingRow is the gorm model backing the url_tracking table, one
// row per crawled URL, per §4.G's change-detection pass.
type urlTrackingRow struct {
	URL         string `gorm:"primaryKey"`
	ContentHash string
	LastCrawled time.Time
	LastChanged time.Time
}

func (urlTrackingRow) TableName() string { return "url_tracking" }

// Store is the gorm/Postgres-backed RecordStore for one tenant.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the leads/url_tracking tables.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&leadRow{}, &urlTrackingRow{}); err != nil {
		return nil, fmt.Errorf("migrate recordstore: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertLead inserts a new lead or updates the existing one for a
// session, advancing its Status (e.g. partial -> phone_collected ->
// complete) as the conversational flow of §4.A/§4.E progresses.
func (s *Store) UpsertLead(ctx context.Context, lead types.Lead) error {
	row := leadRow{
		ID:          lead.ID,
		TenantID:    lead.TenantID,
		SessionID:   lead.SessionID,
		Name:        lead.Name,
		Phone:       lead.Phone,
		Email:       lead.Email,
		Status:      string(lead.Status),
		SourceQuery: lead.SourceQuery,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
	}
	return s.db.WithContext(ctx).Save(&row).Error
}

// GetLeadBySession returns the lead tied to a session, if any.
func (s *Store) GetLeadBySession(ctx context.Context, sessionID string) (*types.Lead, error) {
	var row leadRow
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead for session %s: %w", sessionID, err)
	}
	return &types.Lead{
		ID:          row.ID,
		TenantID:    row.TenantID,
		SessionID:   row.SessionID,
		Name:        row.Name,
		Phone:       row.Phone,
		Email:       row.Email,
		Status:      types.LeadStatus(row.Status),
		SourceQuery: row.SourceQuery,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// GetURLTracking returns the tracking record for url, if any.
func (s *Store) GetURLTracking(ctx context.Context, url string) (*types.URLTrackingRecord, error) {
	var row urlTrackingRow
	err := s.db.WithContext(ctx).Where("url = ?", url).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get url tracking for %s: %w", url, err)
	}
	return &types.URLTrackingRecord{
		URL:         row.URL,
		ContentHash: row.ContentHash,
		LastCrawled: row.LastCrawled,
		LastChanged: row.LastChanged,
	}, nil
}

// UpsertURLTracking records the latest crawl outcome for a URL.
func (s *Store) UpsertURLTracking(ctx context.Context, rec types.URLTrackingRecord) error {
	row := urlTrackingRow{
		URL:         rec.URL,
		ContentHash: rec.ContentHash,
		LastCrawled: rec.LastCrawled,
		LastChanged: rec.LastChanged,
	}
	return s.db.WithContext(ctx).Save(&row).Error
}

// ListLeads returns leads for a tenant, most recently updated first.
func (s *Store) ListLeads(ctx context.Context, tenantID string, limit, offset int) ([]types.Lead, error) {
	var rows []leadRow
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("updated_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list leads for tenant %s: %w", tenantID, err)
	}
	leads := make([]types.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, types.Lead{
			ID:          row.ID,
			TenantID:    row.TenantID,
			SessionID:   row.SessionID,
			Name:        row.Name,
			Phone:       row.Phone,
			Email:       row.Email,
			Status:      types.LeadStatus(row.Status),
			SourceQuery: row.SourceQuery,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return leads, nil
}

// Close closes the underlying Postgres connection pool. Only the
// tenant registry calls this, when it destroys the Engine that owns
// this connection (§4.F).
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// CountLeads returns the total number of leads recorded for a tenant.
func (s *Store) CountLeads(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&leadRow{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count leads for tenant %s: %w", tenantID, err)
	}
	return count, nil
}

// Query runs an operator-supplied read-only SQL statement after
// validating it with SQLValidator, returning column-named rows.
func (s *Store) Query(ctx context.Context, sqlQuery string) ([]map[string]interface{}, error) {
	normalized, err := NewSQLValidator().ValidateAndNormalize(sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("sql validation failed: %w", err)
	}

	rows, err := s.db.WithContext(ctx).Raw(normalized).Rows()
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
