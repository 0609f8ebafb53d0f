package turn14

// Brand is one manufacturer line the distributor carries.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is one distributor catalog entry.
type Item struct {
	SKU         string   `json:"sku"`
	PartNumber  string   `json:"part_number"`
	Name        string   `json:"product_name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Price       float64  `json:"price"`
	MAPPrice    *float64 `json:"map_price"`
	Stock       int      `json:"stock"`
	Images      []string `json:"thumbnails"`
}

// ItemPage is one page of a brand-filtered inventory listing.
type ItemPage struct {
	Items      []Item `json:"data"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

// HasMore reports whether another page follows this one.
func (p *ItemPage) HasMore() bool { return p.Page < p.TotalPages }

// InventoryFilter narrows an inventory listing.
type InventoryFilter struct {
	Brand    string
	Category string
}

// Vehicle is one row of the distributor's vehicle database.
type Vehicle struct {
	ID           string  `json:"id"`
	Year         int     `json:"year"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Submodel     string  `json:"submodel"`
	Engine       *string `json:"engine"`
	Transmission *string `json:"transmission"`
	DriveType    *string `json:"drive_type"`
	BodyStyle    *string `json:"body_style"`
}

// VehiclePage is one page of the vehicle database listing.
type VehiclePage struct {
	Vehicles   []Vehicle `json:"data"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

func (p *VehiclePage) HasMore() bool { return p.Page < p.TotalPages }

// VehicleFilter narrows a vehicle listing.
type VehicleFilter struct {
	Make string
	Year int
}

// Fitment is one vehicle-compatibility row for a SKU. Universal rows fit
// every vehicle and carry no year/make/model.
type Fitment struct {
	Year        int     `json:"year"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Submodel    string  `json:"submodel"`
	EngineNotes *string `json:"engine_notes"`
	IsUniversal bool    `json:"is_universal"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
