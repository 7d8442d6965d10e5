package usage

// DefaultTopCities is how many cities Summary reports.
const DefaultTopCities = 5

// CityCount is how often a city was delivered.
type CityCount struct {
	CityName string `json:"cityName"`
	Turns    int64  `json:"turns"`
}

// Summary aggregates the turn ledger.
type Summary struct {
	Total     int64       `json:"total"`
	Delivered int64       `json:"delivered"`
	Failed    int64       `json:"failed"`
	TopCities []CityCount `json:"topCities"`
}
