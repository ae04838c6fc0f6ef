package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	restartTimeout = 30 * time.Second
	notifyTimeout  = 10 * time.Second
)

// Notifier drives §4.H's two-step notification protocol: a restart call
// to the retrieval service followed, only on success, by a
// scrape-complete callback to the admin backend.
type Notifier struct {
	HTTPClient      *http.Client
	BotBaseURL      string
	AdminBackendURL string
	ServiceSecret   string
	JWTSigningKey   string
	RestartTimeout  time.Duration
	NotifyTimeout   time.Duration
}

// NewNotifier builds a Notifier with the spec's per-call timeouts
// (restartTimeout/notifyTimeout) unless restart/notify are overridden.
func NewNotifier(botBaseURL, adminBackendURL, serviceSecret string, restart, notify time.Duration) *Notifier {
	if restart <= 0 {
		restart = restartTimeout
	}
	if notify <= 0 {
		notify = notifyTimeout
	}
	return &Notifier{
		HTTPClient:      &http.Client{},
		BotBaseURL:      botBaseURL,
		AdminBackendURL: adminBackendURL,
		ServiceSecret:   serviceSecret,
		RestartTimeout:  restart,
		NotifyTimeout:   notify,
	}
}

// bearerToken signs a short-lived JWT for the admin-backend call, an
// optional second credential alongside the shared secret header. Returns
// "" when no signing key is configured, so callers can skip the header
// entirely rather than send an unsigned or empty bearer token.
func (n *Notifier) bearerToken() (string, error) {
	if n.JWTSigningKey == "" {
		return "", nil
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "ragtenant-scheduler",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(n.NotifyTimeout + time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(n.JWTSigningKey))
}

func (n *Notifier) post(ctx context.Context, url string, body []byte, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Secret", n.ServiceSecret)
	if token, err := n.bearerToken(); err != nil {
		return fmt.Errorf("sign bearer token: %w", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// restartBot issues the mandatory restart call. A non-2xx or transport
// error aborts the rest of the protocol for this tick — §4.H step 3a.
func (n *Notifier) restartBot(ctx context.Context) error {
	return n.post(ctx, n.BotBaseURL+"/system/restart", nil, n.RestartTimeout)
}

type scrapeCompletePayload struct {
	ResourceID  string `json:"resource_id"`
	Success     bool   `json:"success"`
	BotReady    bool   `json:"bot_ready"`
	Trigger     string `json:"trigger"`
	CompletedAt string `json:"completed_at"`
}

// notifyScrapeComplete tells the admin backend a scheduled scrape
// finished. Failures here are logged by the caller but never abort the
// tick — the scrape itself already happened.
func (n *Notifier) notifyScrapeComplete(ctx context.Context, resourceID string, success bool, completedAt time.Time) error {
	payload := scrapeCompletePayload{
		ResourceID:  resourceID,
		Success:     success,
		BotReady:    success,
		Trigger:     "scheduler",
		CompletedAt: completedAt.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal scrape-complete payload: %w", err)
	}
	return n.post(ctx, n.AdminBackendURL+"/api/scrape/scheduler/scrape-complete", body, n.NotifyTimeout)
}

// OnJobComplete runs the §4.H.3 protocol for one finished updater job.
// jobErr is the error (if any) the crawl itself returned.
//
// On crawl success: restart is mandatory. If the restart call fails, the
// admin backend is never notified — the cycle is incomplete and the next
// scheduled tick will retry from scratch.
// On crawl failure: only the admin backend is notified, with success=false.
func (n *Notifier) OnJobComplete(ctx context.Context, resourceID string, jobErr error, completedAt time.Time) error {
	if jobErr != nil {
		return n.notifyScrapeComplete(ctx, resourceID, false, completedAt)
	}

	if err := n.restartBot(ctx); err != nil {
		return fmt.Errorf("restart ack failed, admin backend not notified: %w", err)
	}
	return n.notifyScrapeComplete(ctx, resourceID, true, completedAt)
}
