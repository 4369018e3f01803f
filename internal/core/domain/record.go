package domain

// Category identifies the kind of records held by a source batch.
// It is derived from the batch name (the corpus file stem).
type Category string

// Well-known categories with dedicated embedding templates.
const (
	// CategorySpacecrafts holds spacecraft records.
	CategorySpacecrafts Category = "spacecrafts"

	// CategoryLaunchers holds launch vehicle records.
	CategoryLaunchers Category = "launchers"

	// CategoryCustomerSatellites holds customer satellite records.
	CategoryCustomerSatellites Category = "customer_satellites"

	// CategoryCentres holds facility records.
	CategoryCentres Category = "centres"
)

// KnownCategories returns the categories that have an embedding template,
// in the order the downloader fetches them.
func KnownCategories() []Category {
	return []Category{
		CategorySpacecrafts,
		CategoryLaunchers,
		CategoryCustomerSatellites,
		CategoryCentres,
	}
}

// Label returns the human-readable label used in embedding text.
// Returns an empty string for categories without a template.
func (c Category) Label() string {
	switch c {
	case CategorySpacecrafts:
		return "Spacecraft"
	case CategoryLaunchers:
		return "Launcher"
	case CategoryCustomerSatellites:
		return "Customer Satellite"
	case CategoryCentres:
		return "ISRO Centre"
	default:
		return ""
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// RawRecord is one heterogeneous source record.
// No schema is assumed beyond optional "id" and "name" fields.
// Numbers are kept as json.Number by the ingestion reader so they
// stringify exactly as written in the source.
type RawRecord map[string]any

// Reserved raw record fields.
const (
	RecordFieldID   = "id"
	RecordFieldName = "name"
)

// BatchRef identifies one source batch in the corpus.
type BatchRef struct {
	// Name is the batch identifier (e.g., "spacecrafts.json").
	Name string

	// Category is derived from the batch name.
	Category Category
}
