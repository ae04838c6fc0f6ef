package scheduler

import "testing"

func TestRefreshPayloadRoundTrips(t *testing.T) {
	want := RefreshPayload{
		TenantID:         "acme",
		StartURL:         "https://acme.example.com",
		Domain:           "acme.example.com",
		VectorCollection: "scraped_content",
		RecordStoreDSN:   "postgres://localhost/acme",
		MaxDepth:         999,
		MaxLinksPerPage:  1000,
		RespectRobots:    true,
		JobID:            "scheduled_acme_20260101_000000",
	}

	task, err := NewRefreshTask(want)
	if err != nil {
		t.Fatalf("NewRefreshTask: %v", err)
	}
	if task.Type() != TaskTypeRefresh {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskTypeRefresh)
	}

	got, err := ParseRefreshPayload(task)
	if err != nil {
		t.Fatalf("ParseRefreshPayload: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}
