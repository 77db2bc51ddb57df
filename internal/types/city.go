package types

// CityCountResponse is the body returned by GET /cities/count.
// Count always equals len(Cities).
type CityCountResponse struct {
	Count  int      `json:"count" example:"2"`
	Cities []string `json:"cities" example:"Cairo,Caracas"`
}

// NewCityCountResponse builds a response whose count matches the city list.
// A nil slice is replaced so the list always serializes as [].
func NewCityCountResponse(cities []string) CityCountResponse {
	if cities == nil {
		cities = []string{}
	}
	return CityCountResponse{
		Count:  len(cities),
		Cities: cities,
	}
}

// FilterMode describes how a letter query was interpreted.
type FilterMode string

const (
	FilterModeEmpty  FilterMode = "empty"
	FilterModePrefix FilterMode = "prefix"
	FilterModeExact  FilterMode = "exact"
)
