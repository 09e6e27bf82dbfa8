package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mylavanya/internal/artist"
	"mylavanya/internal/product"
)

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func parentBooking() *Booking {
	pin := 700001
	email := "rina@example.com"
	return &Booking{
		BookingNumber: 1001,
		JobNumber:     1,
		Name:          "Rina Das",
		Phone:         "9830012345",
		Email:         &email,
		Address:       "12 Park Street",
		Pincode:       &pin,
	}
}

func TestBuildJobDefaults(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	prod := &product.Product{
		ID: 5, ProductName: "Party Makeup", ServiceName: "Makeup",
		Price: decimal.RequireFromString("2000"),
	}

	b, err := BuildJob(parentBooking(), NewJobInput{
		Product: prod,
		Date:    "2025-04-01",
		Time:    "11:30",
	}, 2, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}

	if b.BookingNumber != 1001 || b.JobNumber != 2 {
		t.Errorf("numbering: %d/%d", b.BookingNumber, b.JobNumber)
	}
	if b.Quantity != 1 {
		t.Errorf("quantity should default to 1, got %d", b.Quantity)
	}
	if b.StatusCode != "pending" || b.StatusName != "Pending" {
		t.Errorf("status should default to pending, got %s/%s", b.StatusCode, b.StatusName)
	}
	if !b.StatusUpdatedAt.Equal(now) || !b.CreatedAt.Equal(now) {
		t.Errorf("timestamps: %v %v", b.StatusUpdatedAt, b.CreatedAt)
	}

	// Customer context comes from the parent job.
	if b.Name != "Rina Das" || b.Phone != "9830012345" || b.Address != "12 Park Street" {
		t.Errorf("customer context not inherited: %+v", b)
	}
	if b.Pincode == nil || *b.Pincode != 700001 {
		t.Errorf("pincode not inherited: %v", b.Pincode)
	}
	if b.ArtistID != nil || b.AssignedTo != nil {
		t.Errorf("no artist selected, got assignment: %+v", b)
	}
}

func TestBuildJobEffectivePrice(t *testing.T) {
	now := time.Now()

	discounted := &product.Product{
		ID: 5, ProductName: "Bridal Makeup", ServiceName: "Makeup",
		Price: decimal.RequireFromString("5000"), NetPayable: decp("4500"),
	}
	b, err := BuildJob(parentBooking(), NewJobInput{Product: discounted, Date: "2025-04-01", Time: "11:30"}, 2, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Price.Equal(decimal.RequireFromString("4500")) {
		t.Errorf("net payable should win, got %s", b.Price)
	}

	plain := &product.Product{
		ID: 6, ProductName: "Hair Spa", ServiceName: "Hair",
		Price: decimal.RequireFromString("1200"),
	}
	b, err = BuildJob(parentBooking(), NewJobInput{Product: plain, Date: "2025-04-01", Time: "11:30"}, 3, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Price.Equal(decimal.RequireFromString("1200")) {
		t.Errorf("list price fallback, got %s", b.Price)
	}
}

func TestBuildJobValidation(t *testing.T) {
	now := time.Now()
	prod := &product.Product{ID: 5, ProductName: "Party Makeup", ServiceName: "Makeup", Price: decimal.RequireFromString("2000")}

	cases := []struct {
		name string
		in   NewJobInput
	}{
		{"missing product", NewJobInput{Date: "2025-04-01", Time: "11:30"}},
		{"missing date", NewJobInput{Product: prod, Time: "11:30"}},
		{"missing time", NewJobInput{Product: prod, Date: "2025-04-01"}},
		{"bad date", NewJobInput{Product: prod, Date: "01/04/2025", Time: "11:30"}},
		{"negative quantity", NewJobInput{Product: prod, Date: "2025-04-01", Time: "11:30", Quantity: -1}},
		{"bad pincode", NewJobInput{Product: prod, Date: "2025-04-01", Time: "11:30", Pincode: strp("70x")}},
	}
	for _, c := range cases {
		_, err := BuildJob(parentBooking(), c.in, 2, testActor, testOptions, now)
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: want ValidationError, got %v", c.name, err)
		}
	}
}

func TestBuildJobArtistRequiredGate(t *testing.T) {
	now := time.Now()
	prod := &product.Product{ID: 5, ProductName: "Party Makeup", ServiceName: "Makeup", Price: decimal.RequireFromString("2000")}

	_, err := BuildJob(parentBooking(), NewJobInput{
		Product: prod, Date: "2025-04-01", Time: "11:30", StatusCode: "beautician_assigned",
	}, 2, testActor, testOptions, now)
	if !errors.Is(err, ErrArtistRequired) {
		t.Fatalf("want ErrArtistRequired, got %v", err)
	}
}

func TestBuildJobWithArtist(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	prod := &product.Product{
		ID: 5, ProductName: "Bridal Makeup", ServiceName: "Makeup",
		Price: decimal.RequireFromString("5000"), NetPayable: decp("4500"),
	}
	art := &artist.Artist{ID: 7, FirstName: "Priya", LastName: "Shah", EmpCode: "EMP007"}

	b, err := BuildJob(parentBooking(), NewJobInput{
		Product:    prod,
		Date:       "2025-04-01",
		Time:       "16:00",
		Quantity:   1,
		StatusCode: "beautician_assigned",
		Artist:     art,
	}, 2, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}

	if b.JobNumber != 2 {
		t.Errorf("job number: %d", b.JobNumber)
	}
	if !b.Price.Equal(decimal.RequireFromString("4500")) {
		t.Errorf("price: %s", b.Price)
	}
	if b.StatusCode != "beautician_assigned" || b.StatusName != "Beautician Assigned" {
		t.Errorf("status: %s/%s", b.StatusCode, b.StatusName)
	}
	if b.ArtistID == nil || *b.ArtistID != 7 {
		t.Fatalf("artist id: %v", b.ArtistID)
	}
	if b.AssignedTo == nil || *b.AssignedTo != "Priya Shah" {
		t.Errorf("assigned_to: %v", b.AssignedTo)
	}
	if b.AssignedBy == nil || *b.AssignedBy != "Asha Verma" {
		t.Errorf("assigned_by: %v", b.AssignedBy)
	}
	if b.AssignedAt == nil || !b.AssignedAt.Equal(now) {
		t.Errorf("assigned_at: %v", b.AssignedAt)
	}
	if b.EmpCode != "EMP007" {
		t.Errorf("emp code: %q", b.EmpCode)
	}
}

func TestBuildJobOverrides(t *testing.T) {
	now := time.Now()
	prod := &product.Product{ID: 5, ProductName: "Party Makeup", ServiceName: "Makeup", Price: decimal.RequireFromString("2000")}

	b, err := BuildJob(parentBooking(), NewJobInput{
		Product: prod, Date: "2025-04-01", Time: "11:30",
		Address: strp("45 Lake Road"),
		Pincode: strp("700029"),
	}, 2, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if b.Address != "45 Lake Road" {
		t.Errorf("address override: %q", b.Address)
	}
	if b.Pincode == nil || *b.Pincode != 700029 {
		t.Errorf("pincode override: %v", b.Pincode)
	}

	// Blank pincode override clears the inherited one.
	b, err = BuildJob(parentBooking(), NewJobInput{
		Product: prod, Date: "2025-04-01", Time: "11:30", Pincode: strp(" "),
	}, 2, testActor, testOptions, now)
	if err != nil {
		t.Fatal(err)
	}
	if b.Pincode != nil {
		t.Errorf("blank override should clear, got %v", b.Pincode)
	}
}
