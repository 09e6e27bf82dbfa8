package booking

import (
	"errors"
	"testing"
	"time"

	"mylavanya/internal/api"
	"mylavanya/internal/artist"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func i64p(n int64) *int64   { return &n }

func baseBooking() *Booking {
	pin := 700001
	return &Booking{
		ID:            42,
		BookingNumber: 1001,
		JobNumber:     1,
		Name:          "Rina Das",
		Phone:         "9830012345",
		Address:       "12 Park Street",
		Pincode:       &pin,
		ServiceName:   "Makeup",
		ProductName:   "Party Makeup",
		Quantity:      1,
		Date:          "2025-03-15",
		Time:          "10:00",
		StatusCode:    "confirmed",
	}
}

var testActor = &api.Actor{ID: 1, Role: api.RoleAdmin, FirstName: "Asha", LastName: "Verma", Username: "asha.v"}

func TestBuildPatchNoChanges(t *testing.T) {
	cur := baseBooking()
	now := time.Now()

	in := EditInput{
		Date:     strp("2025-03-15"),
		Time:     strp("10:00"),
		Status:   strp("confirmed"),
		Address:  strp("12 Park Street"),
		Pincode:  strp("700001"),
		Quantity: intp(1),
	}
	p, err := BuildPatch(cur, in, nil, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsEmpty() {
		t.Errorf("expected empty patch, got %+v", p)
	}
}

func TestBuildPatchDateNormalized(t *testing.T) {
	cur := baseBooking()
	now := time.Now()

	// Same calendar day delivered as a timestamp is not a change.
	p, err := BuildPatch(cur, EditInput{Date: strp("2025-03-15T00:00:00Z")}, nil, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Date != nil {
		t.Errorf("timestamp of same day should not diff, got %q", *p.Date)
	}

	p, err = BuildPatch(cur, EditInput{Date: strp("2025-03-20T00:00:00Z")}, nil, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Date == nil || *p.Date != "2025-03-20" {
		t.Errorf("want normalized 2025-03-20, got %v", p.Date)
	}
}

func TestBuildPatchStatusStampsTimestamp(t *testing.T) {
	cur := baseBooking()
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	p, err := BuildPatch(cur, EditInput{Status: strp("cancelled")}, nil, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status == nil || *p.Status != "cancelled" {
		t.Fatalf("status not patched: %+v", p)
	}
	if p.StatusUpdatedAt == nil || !p.StatusUpdatedAt.Equal(now) {
		t.Errorf("status change must stamp StatusUpdatedAt, got %v", p.StatusUpdatedAt)
	}

	// Re-selecting the current status is not a change and must not stamp.
	p, err = BuildPatch(cur, EditInput{Status: strp("confirmed")}, nil, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != nil || p.StatusUpdatedAt != nil {
		t.Errorf("unchanged status must not stamp, got %+v", p)
	}
}

func TestBuildPatchPincode(t *testing.T) {
	now := time.Now()

	t.Run("non-numeric rejected", func(t *testing.T) {
		_, err := BuildPatch(baseBooking(), EditInput{Pincode: strp("70000a")}, nil, testActor, testOptions, now)
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("want ValidationError, got %v", err)
		}
	})

	t.Run("blank clears stored pincode", func(t *testing.T) {
		p, err := BuildPatch(baseBooking(), EditInput{Pincode: strp("  ")}, nil, testActor, testOptions, now)
		if err != nil {
			t.Fatal(err)
		}
		if !p.SetPincode || p.Pincode != nil {
			t.Errorf("blank should clear: %+v", p)
		}
	})

	t.Run("blank on empty pincode is a no-op", func(t *testing.T) {
		cur := baseBooking()
		cur.Pincode = nil
		p, err := BuildPatch(cur, EditInput{Pincode: strp("")}, nil, testActor, testOptions, now)
		if err != nil {
			t.Fatal(err)
		}
		if p.SetPincode {
			t.Errorf("nothing to clear: %+v", p)
		}
	})

	t.Run("changed value parses to int", func(t *testing.T) {
		p, err := BuildPatch(baseBooking(), EditInput{Pincode: strp("700086")}, nil, testActor, testOptions, now)
		if err != nil {
			t.Fatal(err)
		}
		if !p.SetPincode || p.Pincode == nil || *p.Pincode != 700086 {
			t.Errorf("got %+v", p)
		}
	})
}

func TestBuildPatchQuantity(t *testing.T) {
	now := time.Now()

	for _, bad := range []int{0, -3} {
		p, err := BuildPatch(baseBooking(), EditInput{Quantity: intp(bad)}, nil, testActor, testOptions, now)
		if err != nil {
			t.Fatal(err)
		}
		if p.Quantity != nil {
			t.Errorf("quantity %d should be dropped silently", bad)
		}
	}

	p, err := BuildPatch(baseBooking(), EditInput{Quantity: intp(3)}, nil, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Quantity == nil || *p.Quantity != 3 {
		t.Errorf("got %+v", p.Quantity)
	}
}

func TestBuildPatchArtistCarriesStamp(t *testing.T) {
	cur := baseBooking()
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	art := &artist.Artist{ID: 7, FirstName: "Priya", LastName: "Shah", EmpCode: "EMP007"}

	p, err := BuildPatch(cur, EditInput{ArtistID: i64p(7)}, art, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.ArtistID == nil || *p.ArtistID != 7 {
		t.Fatalf("artist id not patched: %+v", p)
	}
	if p.Stamp == nil {
		t.Fatal("artist change must carry the assignment stamp")
	}
	if p.Stamp.AssignedTo != "Priya Shah" || p.Stamp.AssignedBy != "Asha Verma" || !p.Stamp.AssignedAt.Equal(now) {
		t.Errorf("incomplete stamp: %+v", p.Stamp)
	}

	// Re-selecting the current artist is not a change.
	cur.ArtistID = i64p(7)
	p, err = BuildPatch(cur, EditInput{ArtistID: i64p(7)}, art, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.ArtistID != nil || p.Stamp != nil {
		t.Errorf("unchanged artist must not restamp: %+v", p)
	}
}

func TestBuildPatchArtistUnresolved(t *testing.T) {
	_, err := BuildPatch(baseBooking(), EditInput{ArtistID: i64p(9)}, nil, testActor, testOptions, time.Now())
	var verr ValidationError
	if !errors.As(err, &verr) || verr.Code != "ARTIST_NOT_FOUND" {
		t.Fatalf("want ARTIST_NOT_FOUND, got %v", err)
	}
}

func TestBuildPatchArtistRequiredGate(t *testing.T) {
	now := time.Now()
	art := &artist.Artist{ID: 7, FirstName: "Priya", LastName: "Shah"}

	// Assignment-required status with no artist anywhere: rejected locally.
	_, err := BuildPatch(baseBooking(), EditInput{Status: strp("beautician_assigned")}, nil, testActor, testOptions, now)
	if !errors.Is(err, ErrArtistRequired) {
		t.Fatalf("want ErrArtistRequired, got %v", err)
	}

	// Artist already on the booking satisfies the gate.
	cur := baseBooking()
	cur.ArtistID = i64p(3)
	if _, err := BuildPatch(cur, EditInput{Status: strp("on_the_way")}, nil, testActor, testOptions, now); err != nil {
		t.Fatalf("existing artist should pass: %v", err)
	}

	// Artist arriving in the same edit satisfies the gate too.
	p, err := BuildPatch(baseBooking(), EditInput{Status: strp("beautician_assigned"), ArtistID: i64p(7)}, art, testActor, testOptions, now)
	if err != nil {
		t.Fatalf("same-edit artist should pass: %v", err)
	}
	if p.ArtistID == nil || p.Stamp == nil || p.Status == nil {
		t.Errorf("expected combined patch, got %+v", p)
	}
}
