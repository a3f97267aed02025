package mapctl

// Mode is the combined popup state of the map. Exactly one of Idle, Drafting
// or Viewing holds at a time, so a draft form and a detail popup can never be
// open together.
type Mode interface {
	mode()
}

// Idle: no popup is open.
type Idle struct{}

// Drafting: the draft form popup is open at the draft's coordinates.
type Drafting struct {
	Draft Draft
}

// Viewing: the detail popup of one cached pin is open.
type Viewing struct {
	PinID string
}

func (Idle) mode()     {}
func (Drafting) mode() {}
func (Viewing) mode()  {}

// Draft is an unsaved pin. Rating 0 means no rating was picked.
type Draft struct {
	Lat    float64
	Lng    float64
	Title  string
	Desc   string
	Rating int
}

// RatingOptions are the values the rating select offers.
var RatingOptions = []int{1, 2, 3, 4, 5}

func validRating(r int) bool {
	for _, opt := range RatingOptions {
		if r == opt {
			return true
		}
	}
	return false
}
