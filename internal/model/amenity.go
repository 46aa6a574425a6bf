package model

const ClassAmenity = "Amenity"

type Amenity struct {
	BaseModel

	Name string
}

var _ Entity = (*Amenity)(nil)

func NewAmenity(name string) *Amenity {
	return &Amenity{BaseModel: NewBaseModel(), Name: name}
}

func (a *Amenity) ClassName() string { return ClassAmenity }

func (a *Amenity) String() string { return describe(a) }

func (a *Amenity) ToDict() map[string]any {
	d := a.dict(ClassAmenity)
	d["name"] = a.Name
	return d
}

func (a *Amenity) decode(d map[string]any) (err error) {
	if err = a.BaseModel.decode(d); err != nil {
		return err
	}
	a.Name, err = stringField(d, "name")
	return err
}
