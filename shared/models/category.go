package models

// Category describes one of the fixed marketplace categories
type Category struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// CategoryCount pairs a category with the number of listings it holds
type CategoryCount struct {
	Category
	Count int `json:"count"`
}

// Categories is the closed set of listing categories, in display order.
var Categories = []Category{
	{Name: "cars", DisplayName: "Cars", Icon: "fas fa-car", Description: "Used cars & vehicles"},
	{Name: "mobiles", DisplayName: "Mobiles", Icon: "fas fa-mobile-alt", Description: "Smartphones & tablets"},
	{Name: "electronics", DisplayName: "Electronics", Icon: "fas fa-laptop", Description: "Gadgets & appliances"},
	{Name: "furniture", DisplayName: "Furniture", Icon: "fas fa-couch", Description: "Home & office furniture"},
	{Name: "fashion", DisplayName: "Fashion", Icon: "fas fa-tshirt", Description: "Clothing & accessories"},
	{Name: "real-estate", DisplayName: "Properties", Icon: "fas fa-home", Description: "Houses & apartments"},
	{Name: "books", DisplayName: "Books", Icon: "fas fa-book", Description: "Educational & novels"},
	{Name: "sports", DisplayName: "Sports", Icon: "fas fa-football-ball", Description: "Sports & fitness"},
}

// Locations is the closed set of regions a listing can be posted from
var Locations = []string{
	"mumbai",
	"delhi",
	"bangalore",
	"pune",
	"chennai",
	"hyderabad",
	"kolkata",
}

// IsCategory reports whether name is one of the known categories
func IsCategory(name string) bool {
	_, ok := LookupCategory(name)
	return ok
}

// LookupCategory returns the category metadata for name
func LookupCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// IsLocation reports whether name is one of the known locations
func IsLocation(name string) bool {
	for _, l := range Locations {
		if l == name {
			return true
		}
	}
	return false
}
