package domain

import (
	"slices"
	"strings"
	"time"
)

// Vendor is a platform-global service provider managed by administrators.
type Vendor struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	CountriesSupported []string  `json:"countriesSupported"`
	ServicesOffered    []string  `json:"servicesOffered"`
	Rating             float64   `json:"rating"`
	ResponseSLAHours   int       `json:"responseSlaHours"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Supports reports whether the vendor operates in country (exact match).
func (v *Vendor) Supports(country string) bool {
	return slices.Contains(v.CountriesSupported, country)
}

// Offers reports whether the vendor offers service (exact match).
func (v *Vendor) Offers(service string) bool {
	return slices.Contains(v.ServicesOffered, service)
}

// ServiceOverlap counts how many of services the vendor offers.
func (v *Vendor) ServiceOverlap(services []string) int {
	n := 0
	for _, s := range services {
		if v.Offers(s) {
			n++
		}
	}
	return n
}

// VendorUpdate carries the optional fields of a vendor patch.
type VendorUpdate struct {
	Name               *string
	CountriesSupported []string
	ServicesOffered    []string
	Rating             *float64
	ResponseSLAHours   *int
}

// VendorQuery holds the caller-supplied predicates for a vendor search.
// Zero values disable a predicate.
type VendorQuery struct {
	Search      string
	Country     string
	Service     string
	MinRating   float64
	MaxSLAHours int
	Page        Page
}

// Matches applies every predicate of q to v.
func (q VendorQuery) Matches(v *Vendor) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.MinRating > 0 && v.Rating < q.MinRating {
		return false
	}
	if q.MaxSLAHours > 0 && v.ResponseSLAHours > q.MaxSLAHours {
		return false
	}
	if q.Country != "" && !v.Supports(q.Country) {
		return false
	}
	if q.Service != "" && !v.Offers(q.Service) {
		return false
	}
	return true
}

// VendorMatch is a vendor suggested for a project with the number of overlapping services.
type VendorMatch struct {
	Vendor  *Vendor
	Overlap int
}
