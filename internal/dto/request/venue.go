package request

import "strings"

// SubmitHiddenGemRequest carries pointers for the coordinates so that a
// missing location fix is distinguishable from (0, 0).
type SubmitHiddenGemRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	Address     string   `json:"address" validate:"required,min=5,max=200"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (r *SubmitHiddenGemRequest) Trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Address = strings.TrimSpace(r.Address)
}

func (r *SubmitHiddenGemRequest) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

type CreateVenueRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Category    string  `json:"category" validate:"required,venue_category"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type RecordVisitRequest struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}
