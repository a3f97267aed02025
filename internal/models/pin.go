package models

import "time"

// Pin is a persisted place annotation. ID and CreatedAt are assigned by the store.
type Pin struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	Rating    int       `json:"rating"`
	Lat       float64   `json:"lat"`
	Long      float64   `json:"long"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePinRequest is the body of POST /pins. Username is null for anonymous
// submissions. The binding rules are enforced by the store, never by the
// client, which forwards whatever the user typed.
type CreatePinRequest struct {
	Username *string `json:"username" binding:"required,min=1"`
	Title    string  `json:"title"`
	Desc     string  `json:"desc"`
	Rating   int     `json:"rating" binding:"gte=0,lte=5"`
	Lat      float64 `json:"lat"`
	Long     float64 `json:"long"`
}

// Owner returns the submitting username, or "" when the request is anonymous.
func (r CreatePinRequest) Owner() string {
	if r.Username == nil {
		return ""
	}
	return *r.Username
}
