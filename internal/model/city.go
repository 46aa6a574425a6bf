package model

const ClassCity = "City"

type City struct {
	BaseModel

	StateID string
	Name    string
}

var _ Entity = (*City)(nil)

func NewCity(stateID, name string) *City {
	return &City{BaseModel: NewBaseModel(), StateID: stateID, Name: name}
}

func (c *City) ClassName() string { return ClassCity }

func (c *City) String() string { return describe(c) }

func (c *City) ToDict() map[string]any {
	d := c.dict(ClassCity)
	d["state_id"] = c.StateID
	d["name"] = c.Name
	return d
}

func (c *City) decode(d map[string]any) error {
	if err := c.BaseModel.decode(d); err != nil {
		return err
	}

	var err error
	if c.StateID, err = stringField(d, "state_id"); err != nil {
		return err
	}
	c.Name, err = stringField(d, "name")
	return err
}
