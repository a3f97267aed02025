// Package view turns client state into a render tree. Compose is a pure
// function; it never mutates its input.
package view

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pinet/pinet/internal/auth"
	"github.com/pinet/pinet/internal/mapctl"
	"github.com/pinet/pinet/internal/models"
)

type MarkerStyle string

const (
	StyleOwn   MarkerStyle = "own"
	StyleOther MarkerStyle = "other"
)

// Color returns the marker color for the style.
func (s MarkerStyle) Color() string {
	if s == StyleOwn {
		return "tomato"
	}
	return "slateblue"
}

// StarIcon is the element repeated once per rating point.
const StarIcon = "★"

// Viewport is the initial camera.
type Viewport struct {
	Latitude  float64
	Longitude float64
	Zoom      int
}

// DefaultViewport is where the map opens.
var DefaultViewport = Viewport{Latitude: 19.802970, Longitude: 85.823450, Zoom: 8}

type Marker struct {
	PinID string
	Lat   float64
	Long  float64
	Style MarkerStyle
}

// Detail is the read-only card of a pin.
type Detail struct {
	PinID     string
	Title     string
	Review    string
	Stars     []string
	CreatedBy string
	CreatedAt string
}

// DraftForm is the add-pin form shown inside the draft popup.
type DraftForm struct {
	Title         string
	Desc          string
	Rating        int
	RatingOptions []int
	SubmitLabel   string
}

// Popup is anchored at Lat/Long and carries exactly one of Detail or Form.
type Popup struct {
	Lat    float64
	Long   float64
	Detail *Detail
	Form   *DraftForm
}

// Toolbar lists the affordances offered in the map corner.
type Toolbar struct {
	AddPin   bool
	Logout   bool
	Login    bool
	Register bool
}

type LoginView struct {
	Username string
	Failure  string
}

type RegisterView struct {
	Username string
	Email    string
	Failure  string
	Success  string
}

type View struct {
	Viewport Viewport
	Identity models.Identity
	Markers  []Marker
	Popup    *Popup
	Toolbar  Toolbar
	Login    *LoginView
	Register *RegisterView
	// Notice carries the register success note after the panel closes.
	Notice string
}

// State is everything the view is derived from.
type State struct {
	Identity models.Identity
	Pins     []models.Pin
	Mode     mapctl.Mode
	Login    auth.LoginPanel
	Register auth.RegisterPanel
	Now      time.Time
}

func Compose(s State) View {
	v := View{
		Viewport: DefaultViewport,
		Identity: s.Identity,
		Markers:  make([]Marker, 0, len(s.Pins)),
	}

	for _, p := range s.Pins {
		style := StyleOther
		if s.Identity.Owns(p) {
			style = StyleOwn
		}
		v.Markers = append(v.Markers, Marker{PinID: p.ID, Lat: p.Lat, Long: p.Long, Style: style})
	}

	switch m := s.Mode.(type) {
	case mapctl.Drafting:
		v.Popup = draftPopup(m.Draft)
	case mapctl.Viewing:
		for _, p := range s.Pins {
			if p.ID == m.PinID {
				v.Popup = detailPopup(p, s.Now)
				break
			}
		}
	}

	if s.Identity.Anonymous() {
		v.Toolbar = Toolbar{Login: true, Register: true}
	} else {
		v.Toolbar = Toolbar{AddPin: true, Logout: true}
	}

	if s.Login.Open {
		lv := &LoginView{Username: s.Login.Username}
		if s.Login.Failed {
			lv.Failure = auth.LoginFailureMessage
		}
		v.Login = lv
	}
	if s.Register.Open {
		rv := &RegisterView{Username: s.Register.Username, Email: s.Register.Email}
		if s.Register.Failed {
			rv.Failure = auth.RegisterFailureMessage
		}
		v.Register = rv
	} else if s.Register.Succeeded {
		v.Notice = auth.RegisterSuccessMessage
	}

	return v
}

func draftPopup(d mapctl.Draft) *Popup {
	options := make([]int, len(mapctl.RatingOptions))
	copy(options, mapctl.RatingOptions)
	return &Popup{
		Lat:  d.Lat,
		Long: d.Lng,
		Form: &DraftForm{
			Title:         d.Title,
			Desc:          d.Desc,
			Rating:        d.Rating,
			RatingOptions: options,
			SubmitLabel:   "Add Pin",
		},
	}
}

func detailPopup(p models.Pin, now time.Time) *Popup {
	stars := make([]string, 0, max(p.Rating, 0))
	for i := 0; i < p.Rating; i++ {
		stars = append(stars, StarIcon)
	}

	createdAt := ""
	if !p.CreatedAt.IsZero() {
		createdAt = humanize.RelTime(p.CreatedAt, now, "ago", "from now")
	}

	return &Popup{
		Lat:  p.Lat,
		Long: p.Long,
		Detail: &Detail{
			PinID:     p.ID,
			Title:     p.Title,
			Review:    p.Desc,
			Stars:     stars,
			CreatedBy: p.Username,
			CreatedAt: createdAt,
		},
	}
}
