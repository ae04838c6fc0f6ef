package edge

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	ragerrors "github.com/aditeya/ragtenant/internal/errors"
	"github.com/aditeya/ragtenant/internal/types"
	"github.com/gin-gonic/gin"
)

// tenantParams is the subset of request fields (body or query, per
// endpoint) that identify a tenant, mirroring QuestionRequest's
// resource_id/vector_store_path/database_uri/user_id fields.
type tenantParams struct {
	ResourceID      string `json:"resource_id" form:"resource_id"`
	VectorStorePath string `json:"vector_store_path" form:"vector_store_path"`
	DatabaseURI     string `json:"database_uri" form:"database_uri"`
	UserID          string `json:"user_id" form:"user_id"`
}

// resolveTenant builds a TenantConfig from tenantParams, requiring all
// three identifying fields per §3's "Tenant context" rule.
func resolveTenant(p tenantParams) (types.TenantConfig, error) {
	tenantID := p.ResourceID
	if tenantID == "" {
		tenantID = p.UserID
	}
	if tenantID == "" || p.VectorStorePath == "" || p.DatabaseURI == "" {
		return types.TenantConfig{}, ragerrors.New(ragerrors.KindTenantContext,
			"resource_id (or user_id), vector_store_path, and database_uri are all required")
	}
	return types.TenantConfig{
		TenantID:        tenantID,
		VectorStorePath: p.VectorStorePath,
		RecordStoreURI:  p.DatabaseURI,
	}, nil
}

var nonSessionChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// resolveSessionID returns incoming unchanged unless it is empty or the
// literal "default", in which case it derives
// "{sanitized_resource_id}_{8-hex-chars}" per §4.I.
func resolveSessionID(incoming, base string) string {
	trimmed := strings.TrimSpace(incoming)
	if trimmed != "" && !strings.EqualFold(trimmed, "default") {
		return trimmed
	}
	sanitizedBase := nonSessionChars.ReplaceAllString(base, "")
	if sanitizedBase == "" {
		sanitizedBase = "session"
	}
	return fmt.Sprintf("%s_%s", sanitizedBase, randomHex(4))
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"[:n*2]
	}
	return hex.EncodeToString(buf)
}

// writeError maps a taxonomy error (§7) to its HTTP status, or falls
// back to 500 for anything untyped.
func writeError(c *gin.Context, err error) {
	kind := ragerrors.Kind("")
	var tagged *ragerrors.Error
	if e, ok := err.(*ragerrors.Error); ok {
		tagged = e
		kind = e.Kind
	}
	status := http.StatusInternalServerError
	if tagged != nil {
		status = ragerrors.HTTPStatus(kind)
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}
