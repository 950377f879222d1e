package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image field names, shared by the multipart form, the JSON body and the
// bson document.
const (
	FieldAgentImg        = "agent_img"
	FieldHouseImgMain    = "house_img_main"
	FieldHouseImgInside1 = "house_img_inside_1"
	FieldHouseImgInside2 = "house_img_inside_2"
)

// ImageFields lists every image field a listing carries.
var ImageFields = []string{FieldAgentImg, FieldHouseImgMain, FieldHouseImgInside1, FieldHouseImgInside2}

type Home struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Price           float64            `bson:"price" json:"price"`
	Street          string             `bson:"street" json:"street"`
	City            string             `bson:"city" json:"city"`
	State           string             `bson:"state" json:"state"`
	Zip             string             `bson:"zip" json:"zip"`
	Lat             float64            `bson:"lat" json:"lat"`
	Lon             float64            `bson:"lon" json:"lon"`
	Bedrooms        float64            `bson:"bedrooms" json:"bedrooms"`
	Bathrooms       float64            `bson:"bathrooms" json:"bathrooms"`
	SquareFeet      float64            `bson:"squareFeet" json:"squareFeet"`
	Description     string             `bson:"description" json:"description"`
	Agent           string             `bson:"agent" json:"agent"`
	AgentPhone      string             `bson:"agent_phone" json:"agent_phone"`
	AgentImg        string             `bson:"agent_img" json:"agent_img"`
	HouseImgMain    string             `bson:"house_img_main" json:"house_img_main"`
	HouseImgInside1 string             `bson:"house_img_inside_1" json:"house_img_inside_1"`
	HouseImgInside2 string             `bson:"house_img_inside_2" json:"house_img_inside_2"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Score is the text relevance of a search hit; zero outside search.
	Score float64 `bson:"score,omitempty" json:"score,omitempty"`
}

// Validate checks the fields required to create a listing.
func (h Home) Validate() error {
	err := validation.ValidateStruct(&h,
		validation.Field(&h.Price, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&h.Street, validation.Required),
		validation.Field(&h.City, validation.Required),
		validation.Field(&h.State, validation.Required),
		validation.Field(&h.Zip, validation.Required),
		validation.Field(&h.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&h.Lon, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&h.Bedrooms, validation.Min(0.0)),
		validation.Field(&h.Bathrooms, validation.Min(0.0)),
		validation.Field(&h.SquareFeet, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&h.Agent, validation.Required),
		validation.Field(&h.AgentPhone, validation.Required),
		validation.Field(&h.AgentImg, validation.Required),
		validation.Field(&h.HouseImgMain, validation.Required),
		validation.Field(&h.HouseImgInside1, validation.Required),
		validation.Field(&h.HouseImgInside2, validation.Required),
	)
	if err != nil {
		return NewValidationError(err)
	}
	return nil
}

// SetImage assigns the image field named by field. Unknown names are ignored.
func (h *Home) SetImage(field, uri string) {
	switch field {
	case FieldAgentImg:
		h.AgentImg = uri
	case FieldHouseImgMain:
		h.HouseImgMain = uri
	case FieldHouseImgInside1:
		h.HouseImgInside1 = uri
	case FieldHouseImgInside2:
		h.HouseImgInside2 = uri
	}
}
