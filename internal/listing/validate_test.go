package listing

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validListing() Listing {
	return Listing{
		ID:        "l1",
		SellerID:  "u1",
		Title:     "Mathematics Class 10",
		Kind:      KindAcademic,
		Condition: ConditionGood,
		Price:     200,
		Grade:     "10",
		Subject:   "Mathematics",
		Location:  &Point{Lat: 28.6139, Lng: 77.2090},
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr error
	}{
		{"valid listing", func(l *Listing) {}, nil},
		{"missing location is fine", func(l *Listing) { l.Location = nil }, nil},
		{"negative price", func(l *Listing) { l.Price = -1 }, ErrNegativePrice},
		{"NaN price", func(l *Listing) { l.Price = math.NaN() }, ErrNegativePrice},
		{"unknown condition", func(l *Listing) { l.Condition = 42 }, ErrInvalidCondition},
		{"unknown kind", func(l *Listing) { l.Kind = "textbook" }, ErrInvalidKind},
		{"latitude out of range", func(l *Listing) { l.Location = &Point{Lat: 91, Lng: 0} }, ErrInvalidCoordinates},
		{"longitude out of range", func(l *Listing) { l.Location = &Point{Lat: 0, Lng: 181} }, ErrInvalidCoordinates},
		{"NaN coordinate", func(l *Listing) { l.Location = &Point{Lat: math.NaN(), Lng: 0} }, ErrInvalidCoordinates},
		{"infinite school coordinate", func(l *Listing) { l.SchoolLocation = &Point{Lat: 0, Lng: math.Inf(1)} }, ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(&l)
			err := l.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSellerProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile SellerProfile
		wantErr bool
	}{
		{"valid", SellerProfile{Username: "ravi", Rating: 4.5}, false},
		{"rating at bounds", SellerProfile{Username: "ravi", Rating: 5}, false},
		{"rating above 5", SellerProfile{Username: "ravi", Rating: 5.1}, true},
		{"negative rating", SellerProfile{Username: "ravi", Rating: -0.1}, true},
		{"bad location", SellerProfile{Username: "ravi", Rating: 3, Location: &Point{Lat: -95, Lng: 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.profile.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidCandidatesFiltersMalformed(t *testing.T) {
	bad := validListing()
	bad.Price = -5

	candidates := []Candidate{
		{Listing: validListing(), Seller: SellerProfile{Username: "a", Rating: 4}},
		{Listing: bad, Seller: SellerProfile{Username: "b", Rating: 4}},
		{Listing: validListing(), Seller: SellerProfile{Username: "c", Rating: 9}},
	}

	valid := ValidCandidates(candidates, nil)
	if len(valid) != 1 {
		t.Fatalf("ValidCandidates kept %d records, want 1", len(valid))
	}
	if valid[0].Seller.Username != "a" {
		t.Errorf("kept wrong candidate: %q", valid[0].Seller.Username)
	}
}
