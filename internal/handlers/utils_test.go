package handlers

import (
	"testing"

	"github.com/google/uuid"
)

func TestExtractUUIDFromPath(t *testing.T) {
	id := uuid.New()

	got, err := extractUUIDFromPath("/api/quotes/"+id.String(), "/api/quotes/")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s err=%v", id, got, err)
	}

	got, err = extractUUIDFromPath("/api/quotes/"+id.String()+"/document", "/api/quotes/")
	if err != nil || got != id {
		t.Fatalf("expected %s with suffix, got %s err=%v", id, got, err)
	}

	if _, err := extractUUIDFromPath("/api/quotes/not-a-uuid", "/api/quotes/"); err == nil {
		t.Fatalf("expected error for invalid uuid")
	}

	if _, err := extractUUIDFromPath("/other/"+id.String(), "/api/quotes/"); err == nil {
		t.Fatalf("expected error for wrong prefix")
	}
}

func TestExtractZoneIDFromPath(t *testing.T) {
	got, err := extractZoneIDFromPath("/api/reference/zones/3/localities", "/api/reference/zones/")
	if err != nil || got != 3 {
		t.Fatalf("expected zone 3, got %d err=%v", got, err)
	}

	if _, err := extractZoneIDFromPath("/api/reference/zones/abc/localities", "/api/reference/zones/"); err == nil {
		t.Fatalf("expected error for non-numeric zone")
	}

	if _, err := extractZoneIDFromPath("/api/reference/zones/-1/localities", "/api/reference/zones/"); err == nil {
		t.Fatalf("expected error for negative zone")
	}
}
