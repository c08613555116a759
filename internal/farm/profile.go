package farm

import "github.com/i474232898/agroplastiguard/internal/weather"

type Location struct {
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng" validate:"gte=-180,lte=180"`
	Name string  `json:"name" validate:"max=200"`
}

// IsZero reports whether no location was given.
func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) Coordinate() weather.Coordinate {
	return weather.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

// Profile is the farm input to an analysis. HasPlantation and DaysPlanted are
// pointers so that "not answered" is distinct from false and zero.
type Profile struct {
	Acres         float64  `json:"acres" validate:"required,gt=0,lte=100000"`
	Location      Location `json:"location" validate:"required"`
	HasPlantation *bool    `json:"hasPlantation"`
	CropType      string   `json:"cropType,omitempty" validate:"max=64"`
	DaysPlanted   *int     `json:"daysPlanted,omitempty" validate:"omitempty,gte=0,lte=3650"`
}

// Planted reports whether the farm is known to have a crop in the ground.
func (p Profile) Planted() bool {
	return p.HasPlantation != nil && *p.HasPlantation
}

// CropStageInputs returns the crop name and days since planting when all
// inputs needed for stage advice are present.
func (p Profile) CropStageInputs() (crop string, days int, ok bool) {
	if !p.Planted() || p.CropType == "" || p.DaysPlanted == nil {
		return "", 0, false
	}
	return p.CropType, *p.DaysPlanted, true
}
