package models

import "time"

// Listing represents an item offered for sale in the marketplace
type Listing struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Price       int64     `json:"price" yaml:"price"`
	Category    string    `json:"category" yaml:"category"`
	Location    string    `json:"location" yaml:"location"`
	Seller      string    `json:"seller" yaml:"seller"`
	Phone       string    `json:"phone" yaml:"phone"`
	Images      []string  `json:"images" yaml:"images"`
	PostedAt    time.Time `json:"posted_at" yaml:"-"`
	Condition   string    `json:"condition" yaml:"condition"`
}

// Candidate is the raw, not yet validated input for a new listing.
// Price stays a string so that the catalog decides what a valid price is.
type Candidate struct {
	Title       string
	Description string
	Price       string
	Category    string
	Location    string
	Seller      string
	Phone       string
	Condition   string
	Images      []string
}

// DefaultCondition is assigned to new listings that do not state one
const DefaultCondition = "Good"

// PlaceholderImage is attached to new listings without photos
const PlaceholderImage = "https://via.placeholder.com/300x200/667eea/ffffff?text=New+Item"

// AllFilter disables the category or location filter of a query
const AllFilter = "all"

// Clone returns a copy of the listing that shares no memory with l.
func (l Listing) Clone() Listing {
	if l.Images != nil {
		l.Images = append([]string(nil), l.Images...)
	}
	return l
}
