package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is a directory entry. Fields the portal does not know about are kept
// in Extra and stored inline in the same document.
type Doctor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Specialty string             `bson:"specialty" json:"specialty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	ImageKey  string             `bson:"imageKey,omitempty" json:"-"`
	Extra     bson.M             `bson:",inline" json:"-"`
}

var doctorFields = []string{"_id", "name", "email", "specialty", "image", "imageKey"}

// IsDoctorField reports whether key maps onto a typed Doctor field.
func IsDoctorField(key string) bool {
	for _, f := range doctorFields {
		if f == key {
			return true
		}
	}
	return false
}

func (d Doctor) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Extra)+5)
	for k, v := range d.Extra {
		out[k] = v
	}
	if !d.ID.IsZero() {
		out["_id"] = d.ID
	}
	out["name"] = d.Name
	out["specialty"] = d.Specialty
	if d.Email != "" {
		out["email"] = d.Email
	}
	if d.Image != "" {
		out["image"] = d.Image
	}
	return json.Marshal(out)
}

func (d *Doctor) UnmarshalJSON(data []byte) error {
	type known Doctor
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}

	var rest map[string]interface{}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	for _, f := range doctorFields {
		delete(rest, f)
	}
	k.Extra = nil
	if len(rest) > 0 {
		k.Extra = bson.M(rest)
	}

	*d = Doctor(k)
	return nil
}
