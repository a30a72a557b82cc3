package domain

// Participant is one named contributor with a specialty label.
type Participant struct {
	ID        string `json:"id"`
	Specialty string `json:"specialty"`
}

// DefaultCatalog is the fixed participant catalog.
var DefaultCatalog = []Participant{
	{ID: "Model A", Specialty: "Math"},
	{ID: "Model B", Specialty: "Science Dictionary"},
	{ID: "Model C", Specialty: "Random Facts"},
	{ID: "Model D", Specialty: "News"},
	{ID: "Model E", Specialty: "Music"},
}

// CatalogIDs returns the ids of the catalog in order.
func CatalogIDs(catalog []Participant) []string {
	ids := make([]string, 0, len(catalog))
	for _, p := range catalog {
		ids = append(ids, p.ID)
	}
	return ids
}
