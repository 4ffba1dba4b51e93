package domain

// Catalog describes one reference-data collection served by the
// backend. Every catalog row carries the same logical fields but under
// a per-catalog prefix (country_name, gender_name, ...), so the client
// maps rows through this descriptor instead of one struct per catalog.
type Catalog struct {
	Key    string // stable identifier, e.g. "countries"
	Label  string // human name for the admin screens
	Path   string // collection path, e.g. "/location/countries/"
	Prefix string // field prefix, e.g. "country" -> country_name
	// ParentField names the foreign-key field when the catalog hangs
	// off another one (states -> country, cities -> state). Empty for
	// top-level catalogs. The same name is the list filter parameter.
	ParentField string
	ParentKey   string // Key of the parent catalog, for admin pickers
}

// CatalogItem is one normalized catalog row.
type CatalogItem struct {
	ID          int64
	Name        string
	Code        string
	Description string
	Active      bool
	ParentID    int64
}

// CatalogGroup is a themed set of catalogs on the admin config screen.
type CatalogGroup struct {
	Label    string
	Catalogs []Catalog
}

// Catalog registry. Paths and prefixes follow the backend's routers.
var (
	CatalogCountries = Catalog{
		Key: "countries", Label: "Countries",
		Path: "/location/countries/", Prefix: "country",
	}
	CatalogStates = Catalog{
		Key: "states", Label: "States",
		Path: "/location/states/", Prefix: "state",
		ParentField: "country", ParentKey: "countries",
	}
	CatalogCities = Catalog{
		Key: "cities", Label: "Cities",
		Path: "/location/cities/", Prefix: "city",
		ParentField: "state", ParentKey: "states",
	}
	CatalogDocumentTypes = Catalog{
		Key: "document-types", Label: "Document types",
		Path: "/user-info/document-types/", Prefix: "document_type",
	}
	CatalogGenders = Catalog{
		Key: "genders", Label: "Genders",
		Path: "/user-info/genders/", Prefix: "gender",
	}
	CatalogPaymentMethodTypes = Catalog{
		Key: "payment-method-types", Label: "Payment method types",
		Path: "/user-info/payment-method-types/", Prefix: "payment_method_type",
	}
	CatalogPrizeTypes = Catalog{
		Key: "prize-types", Label: "Prize types",
		Path: "/raffle-info/prizetype/", Prefix: "prize_type",
	}
	CatalogRaffleStates = Catalog{
		Key: "raffle-states", Label: "Raffle states",
		Path: "/raffle-info/stateraffle/", Prefix: "state_raffle",
	}
)

// CatalogGroups returns the admin config layout: locations, user
// reference data, raffle reference data.
func CatalogGroups() []CatalogGroup {
	return []CatalogGroup{
		{Label: "Locations", Catalogs: []Catalog{CatalogCountries, CatalogStates, CatalogCities}},
		{Label: "User data", Catalogs: []Catalog{CatalogDocumentTypes, CatalogGenders, CatalogPaymentMethodTypes}},
		{Label: "Raffle data", Catalogs: []Catalog{CatalogPrizeTypes, CatalogRaffleStates}},
	}
}
