package model

const ClassState = "State"

type State struct {
	BaseModel

	Name string
}

var _ Entity = (*State)(nil)

func NewState(name string) *State {
	return &State{BaseModel: NewBaseModel(), Name: name}
}

func (s *State) ClassName() string { return ClassState }

func (s *State) String() string { return describe(s) }

func (s *State) ToDict() map[string]any {
	d := s.dict(ClassState)
	d["name"] = s.Name
	return d
}

func (s *State) decode(d map[string]any) (err error) {
	if err = s.BaseModel.decode(d); err != nil {
		return err
	}
	s.Name, err = stringField(d, "name")
	return err
}
