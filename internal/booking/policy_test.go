package booking

import (
	"testing"
	"time"

	"mylavanya/internal/api"
	"mylavanya/internal/status"
)

var testOptions = []status.Option{
	{Code: "pending", Name: "Pending", Sequence: 10, Active: true},
	{Code: "confirmed", Name: "Confirmed", Sequence: 20, Active: true},
	{Code: "beautician_assigned", Name: "Beautician Assigned", RequiresArtist: true, Sequence: 30, Active: true},
	{Code: "on_the_way", Name: "Beautician On The Way", RequiresArtist: true, Sequence: 40, Active: true},
	{Code: "service_started", Name: "Service Started", RequiresArtist: true, Sequence: 50, Active: true},
	{Code: "done", Name: "Completed", RequiresArtist: true, Sequence: 60, Active: true},
	{Code: "cancelled", Name: "Cancelled", Sequence: 70, Active: true},
}

func TestRequiresArtist(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"pending", false},
		{"confirmed", false},
		{"beautician_assigned", true},
		{"on_the_way", true},
		{"service_started", true},
		{"done", true},
		{"cancelled", false},
		{"no_such_code", false},
	}
	for _, c := range cases {
		if got := RequiresArtist(c.code, testOptions); got != c.want {
			t.Errorf("RequiresArtist(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestResolveStatusName(t *testing.T) {
	if got := ResolveStatusName("on_the_way", testOptions); got != "Beautician On The Way" {
		t.Errorf("got %q", got)
	}
	if got := ResolveStatusName("no_such_code", testOptions); got != "Pending" {
		t.Errorf("unknown code: got %q, want Pending", got)
	}
	if got := ResolveStatusName("pending", nil); got != "Pending" {
		t.Errorf("empty options: got %q, want Pending", got)
	}
}

func TestNewAssignmentStamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		actor  *api.Actor
		wantBy string
	}{
		{"full name", &api.Actor{FirstName: "Asha", LastName: "Verma", Username: "asha.v"}, "Asha Verma"},
		{"first name only", &api.Actor{FirstName: "Asha", Username: "asha.v"}, "Asha"},
		{"username fallback", &api.Actor{Username: "asha.v"}, "asha.v"},
		{"blank actor", &api.Actor{}, "admin"},
		{"nil actor", nil, "admin"},
	}
	for _, c := range cases {
		s := NewAssignmentStamp("Priya Shah", c.actor, now)
		if s.AssignedTo != "Priya Shah" {
			t.Errorf("%s: AssignedTo = %q", c.name, s.AssignedTo)
		}
		if s.AssignedBy != c.wantBy {
			t.Errorf("%s: AssignedBy = %q, want %q", c.name, s.AssignedBy, c.wantBy)
		}
		if !s.AssignedAt.Equal(now) {
			t.Errorf("%s: AssignedAt = %v", c.name, s.AssignedAt)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	if d, err := NormalizeDate("2025-03-15"); err != nil || d != "2025-03-15" {
		t.Errorf("plain date: %q, %v", d, err)
	}
	if d, err := NormalizeDate("2025-03-15T00:00:00Z"); err != nil || d != "2025-03-15" {
		t.Errorf("timestamp: %q, %v", d, err)
	}
	if _, err := NormalizeDate("15/03/2025"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
