package models

// Category is a fixed reporting category. The list is defined in-process
// rather than stored; issues reference categories by ID.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

var Categories = []Category{
	{ID: "1", Name: "Potholes/Road Damage", Icon: "🚧", Active: true},
	{ID: "2", Name: "Streetlights", Icon: "💡", Active: true},
	{ID: "3", Name: "Trash/Graffiti", Icon: "🧹", Active: true},
	{ID: "4", Name: "Sidewalks", Icon: "🚶", Active: true},
	{ID: "5", Name: "Parks", Icon: "🌳", Active: true},
	{ID: "6", Name: "Traffic Signals", Icon: "🚦", Active: true},
	{ID: "7", Name: "Water/Drainage", Icon: "💧", Active: true},
	{ID: "8", Name: "Safety Concern", Icon: "⚠️", Active: true},
	{ID: "9", Name: "Other", Icon: "📝", Active: true},
}

func ValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id && c.Active {
			return true
		}
	}
	return false
}
