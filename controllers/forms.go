package controllers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/billow-homes/homes-api/models"
)

// formReader pulls typed values out of multipart form fields, collecting
// parse errors per field.
type formReader struct {
	values url.Values
	errs   map[string]string
}

func newFormReader(values url.Values) *formReader {
	return &formReader{values: values, errs: map[string]string{}}
}

func (f *formReader) str(key string) *string {
	if _, ok := f.values[key]; !ok {
		return nil
	}
	v := strings.TrimSpace(f.values.Get(key))
	return &v
}

func (f *formReader) num(key string) *float64 {
	s := f.str(key)
	if s == nil {
		return nil
	}
	n, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		f.errs[key] = fmt.Sprintf("must be a number, got %q", *s)
		return nil
	}
	return &n
}

func (f *formReader) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return &models.ValidationError{Message: "malformed form fields", Fields: f.errs}
}

// patch reads every allow-listed field present in the form.
func (f *formReader) patch() (models.HomePatch, error) {
	p := models.HomePatch{
		Price:           f.num("price"),
		Street:          f.str("street"),
		City:            f.str("city"),
		State:           f.str("state"),
		Zip:             f.str("zip"),
		Lat:             f.num("lat"),
		Lon:             f.num("lon"),
		Bedrooms:        f.num("bedrooms"),
		Bathrooms:       f.num("bathrooms"),
		SquareFeet:      f.num("squareFeet"),
		Description:     f.str("description"),
		Agent:           f.str("agent"),
		AgentPhone:      f.str("agent_phone"),
		AgentImg:        f.str(models.FieldAgentImg),
		HouseImgMain:    f.str(models.FieldHouseImgMain),
		HouseImgInside1: f.str(models.FieldHouseImgInside1),
		HouseImgInside2: f.str(models.FieldHouseImgInside2),
	}
	return p, f.err()
}

// home reads a full listing; absent fields stay zero and are caught by
// Home.Validate.
func (f *formReader) home() (models.Home, error) {
	p, err := f.patch()
	if err != nil {
		return models.Home{}, err
	}
	var h models.Home
	p.Apply(&h)
	return h, nil
}
