package model

import "slices"

const ClassPlace = "Place"

type Place struct {
	BaseModel

	CityID          string
	UserID          string
	Name            string
	Description     string
	NumberRooms     int
	NumberBathrooms int
	MaxGuest        int
	PriceByNight    int
	Latitude        float64
	Longitude       float64
	// AmenityIDs links the place to amenities by id.
	AmenityIDs []string
}

var _ Entity = (*Place)(nil)

func NewPlace(cityID, userID, name string) *Place {
	return &Place{BaseModel: NewBaseModel(), CityID: cityID, UserID: userID, Name: name}
}

// AddAmenity links a once; repeated calls and nil are no-ops.
func (p *Place) AddAmenity(a *Amenity) {
	if a == nil || slices.Contains(p.AmenityIDs, a.ID) {
		return
	}
	p.AmenityIDs = append(p.AmenityIDs, a.ID)
}

func (p *Place) ClassName() string { return ClassPlace }

func (p *Place) String() string { return describe(p) }

func (p *Place) ToDict() map[string]any {
	d := p.dict(ClassPlace)
	d["city_id"] = p.CityID
	d["user_id"] = p.UserID
	d["name"] = p.Name
	d["description"] = p.Description
	d["number_rooms"] = p.NumberRooms
	d["number_bathrooms"] = p.NumberBathrooms
	d["max_guest"] = p.MaxGuest
	d["price_by_night"] = p.PriceByNight
	d["latitude"] = p.Latitude
	d["longitude"] = p.Longitude
	d["amenity_ids"] = slices.Clone(p.AmenityIDs)
	return d
}

func (p *Place) decode(d map[string]any) error {
	if err := p.BaseModel.decode(d); err != nil {
		return err
	}

	var err error
	strs := []struct {
		key string
		dst *string
	}{
		{"city_id", &p.CityID},
		{"user_id", &p.UserID},
		{"name", &p.Name},
		{"description", &p.Description},
	}
	for _, f := range strs {
		if *f.dst, err = stringField(d, f.key); err != nil {
			return err
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"number_rooms", &p.NumberRooms},
		{"number_bathrooms", &p.NumberBathrooms},
		{"max_guest", &p.MaxGuest},
		{"price_by_night", &p.PriceByNight},
	}
	for _, f := range ints {
		if *f.dst, err = intField(d, f.key); err != nil {
			return err
		}
	}

	if p.Latitude, err = floatField(d, "latitude"); err != nil {
		return err
	}
	if p.Longitude, err = floatField(d, "longitude"); err != nil {
		return err
	}

	p.AmenityIDs, err = stringSliceField(d, "amenity_ids")
	return err
}
