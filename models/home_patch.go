package models

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// HomePatch is the allow-list of fields a partial update may touch. A nil
// member means "leave unchanged". Anything a caller sends outside these
// fields is dropped while decoding.
type HomePatch struct {
	Price           *float64 `json:"price,omitempty"`
	Street          *string  `json:"street,omitempty"`
	City            *string  `json:"city,omitempty"`
	State           *string  `json:"state,omitempty"`
	Zip             *string  `json:"zip,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lon             *float64 `json:"lon,omitempty"`
	Bedrooms        *float64 `json:"bedrooms,omitempty"`
	Bathrooms       *float64 `json:"bathrooms,omitempty"`
	SquareFeet      *float64 `json:"squareFeet,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Agent           *string  `json:"agent,omitempty"`
	AgentPhone      *string  `json:"agent_phone,omitempty"`
	AgentImg        *string  `json:"agent_img,omitempty"`
	HouseImgMain    *string  `json:"house_img_main,omitempty"`
	HouseImgInside1 *string  `json:"house_img_inside_1,omitempty"`
	HouseImgInside2 *string  `json:"house_img_inside_2,omitempty"`
}

var errBlank = errors.New("cannot be blank")

// notBlank rejects a present-but-empty string. Absent (nil) values pass.
var notBlank = validation.By(func(v interface{}) error {
	switch s := v.(type) {
	case *string:
		if s != nil && strings.TrimSpace(*s) == "" {
			return errBlank
		}
	case string:
		if strings.TrimSpace(s) == "" {
			return errBlank
		}
	}
	return nil
})

// Validate checks the supplied members only.
func (p HomePatch) Validate() error {
	if p.IsEmpty() {
		return &ValidationError{Message: "no updatable fields supplied"}
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Price, validation.NilOrNotEmpty, validation.Min(0.0).Exclusive()),
		validation.Field(&p.Street, notBlank),
		validation.Field(&p.City, notBlank),
		validation.Field(&p.State, notBlank),
		validation.Field(&p.Zip, notBlank),
		validation.Field(&p.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Lon, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&p.Bedrooms, validation.Min(0.0)),
		validation.Field(&p.Bathrooms, validation.Min(0.0)),
		validation.Field(&p.SquareFeet, validation.NilOrNotEmpty, validation.Min(0.0).Exclusive()),
		validation.Field(&p.Agent, notBlank),
		validation.Field(&p.AgentPhone, notBlank),
		validation.Field(&p.AgentImg, notBlank),
		validation.Field(&p.HouseImgMain, notBlank),
		validation.Field(&p.HouseImgInside1, notBlank),
		validation.Field(&p.HouseImgInside2, notBlank),
	)
	if err != nil {
		return NewValidationError(err)
	}
	return nil
}

// IsEmpty reports whether no member is set.
func (p HomePatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the set members keyed by their document field name.
func (p HomePatch) Fields() bson.M {
	set := bson.M{}
	putFloat := func(name string, v *float64) {
		if v != nil {
			set[name] = *v
		}
	}
	putString := func(name string, v *string) {
		if v != nil {
			set[name] = *v
		}
	}

	putFloat("price", p.Price)
	putString("street", p.Street)
	putString("city", p.City)
	putString("state", p.State)
	putString("zip", p.Zip)
	putFloat("lat", p.Lat)
	putFloat("lon", p.Lon)
	putFloat("bedrooms", p.Bedrooms)
	putFloat("bathrooms", p.Bathrooms)
	putFloat("squareFeet", p.SquareFeet)
	putString("description", p.Description)
	putString("agent", p.Agent)
	putString("agent_phone", p.AgentPhone)
	putString(FieldAgentImg, p.AgentImg)
	putString(FieldHouseImgMain, p.HouseImgMain)
	putString(FieldHouseImgInside1, p.HouseImgInside1)
	putString(FieldHouseImgInside2, p.HouseImgInside2)
	return set
}

// SetImage points the image member named by field at uri.
func (p *HomePatch) SetImage(field, uri string) {
	switch field {
	case FieldAgentImg:
		p.AgentImg = &uri
	case FieldHouseImgMain:
		p.HouseImgMain = &uri
	case FieldHouseImgInside1:
		p.HouseImgInside1 = &uri
	case FieldHouseImgInside2:
		p.HouseImgInside2 = &uri
	}
}

// Apply merges the set members into h.
func (p HomePatch) Apply(h *Home) {
	if p.Price != nil {
		h.Price = *p.Price
	}
	if p.Street != nil {
		h.Street = *p.Street
	}
	if p.City != nil {
		h.City = *p.City
	}
	if p.State != nil {
		h.State = *p.State
	}
	if p.Zip != nil {
		h.Zip = *p.Zip
	}
	if p.Lat != nil {
		h.Lat = *p.Lat
	}
	if p.Lon != nil {
		h.Lon = *p.Lon
	}
	if p.Bedrooms != nil {
		h.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		h.Bathrooms = *p.Bathrooms
	}
	if p.SquareFeet != nil {
		h.SquareFeet = *p.SquareFeet
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Agent != nil {
		h.Agent = *p.Agent
	}
	if p.AgentPhone != nil {
		h.AgentPhone = *p.AgentPhone
	}
	if p.AgentImg != nil {
		h.AgentImg = *p.AgentImg
	}
	if p.HouseImgMain != nil {
		h.HouseImgMain = *p.HouseImgMain
	}
	if p.HouseImgInside1 != nil {
		h.HouseImgInside1 = *p.HouseImgInside1
	}
	if p.HouseImgInside2 != nil {
		h.HouseImgInside2 = *p.HouseImgInside2
	}
}
