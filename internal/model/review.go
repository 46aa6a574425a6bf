package model

const ClassReview = "Review"

type Review struct {
	BaseModel

	PlaceID string
	UserID  string
	Text    string
}

var _ Entity = (*Review)(nil)

func NewReview(placeID, userID, text string) *Review {
	return &Review{BaseModel: NewBaseModel(), PlaceID: placeID, UserID: userID, Text: text}
}

func (r *Review) ClassName() string { return ClassReview }

func (r *Review) String() string { return describe(r) }

func (r *Review) ToDict() map[string]any {
	d := r.dict(ClassReview)
	d["place_id"] = r.PlaceID
	d["user_id"] = r.UserID
	d["text"] = r.Text
	return d
}

func (r *Review) decode(d map[string]any) error {
	if err := r.BaseModel.decode(d); err != nil {
		return err
	}

	var err error
	if r.PlaceID, err = stringField(d, "place_id"); err != nil {
		return err
	}
	if r.UserID, err = stringField(d, "user_id"); err != nil {
		return err
	}
	r.Text, err = stringField(d, "text")
	return err
}
