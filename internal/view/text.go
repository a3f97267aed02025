package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Render writes v as plain text for the terminal client.
func Render(w io.Writer, v View) {
	who := "anonymous"
	if !v.Identity.Anonymous() {
		who = string(v.Identity)
	}
	fmt.Fprintf(w, "PinEt map @ %.6f, %.6f (zoom %d) | %s\n", v.Viewport.Latitude, v.Viewport.Longitude, v.Viewport.Zoom, who)

	if len(v.Markers) == 0 {
		fmt.Fprintln(w, "  no pins")
	}
	for _, m := range v.Markers {
		fmt.Fprintf(w, "  [%s] %s  %.5f, %.5f\n", m.Style.Color(), m.PinID, m.Lat, m.Long)
	}

	if v.Popup != nil {
		renderPopup(w, v.Popup)
	}

	fmt.Fprintf(w, "  %s\n", toolbarLine(v.Toolbar))

	if v.Login != nil {
		fmt.Fprintln(w, "  -- Log in --")
		fmt.Fprintf(w, "  username: %s\n", v.Login.Username)
		if v.Login.Failure != "" {
			fmt.Fprintf(w, "  ! %s\n", v.Login.Failure)
		}
	}
	if v.Register != nil {
		fmt.Fprintln(w, "  -- Register --")
		fmt.Fprintf(w, "  username: %s  email: %s\n", v.Register.Username, v.Register.Email)
		if v.Register.Failure != "" {
			fmt.Fprintf(w, "  ! %s\n", v.Register.Failure)
		}
	}
	if v.Notice != "" {
		fmt.Fprintf(w, "  %s\n", v.Notice)
	}
}

func renderPopup(w io.Writer, p *Popup) {
	fmt.Fprintf(w, "  +-- popup @ %.5f, %.5f\n", p.Lat, p.Long)
	switch {
	case p.Detail != nil:
		d := p.Detail
		fmt.Fprintf(w, "  | Place:  %s\n", d.Title)
		fmt.Fprintf(w, "  | Review: %s\n", d.Review)
		fmt.Fprintf(w, "  | Rating: %s\n", strings.Join(d.Stars, ""))
		fmt.Fprintf(w, "  | Created by %s %s\n", d.CreatedBy, d.CreatedAt)
	case p.Form != nil:
		f := p.Form
		opts := make([]string, len(f.RatingOptions))
		for i, o := range f.RatingOptions {
			opts[i] = strconv.Itoa(o)
		}
		fmt.Fprintf(w, "  | Title:       %s\n", f.Title)
		fmt.Fprintf(w, "  | Description: %s\n", f.Desc)
		fmt.Fprintf(w, "  | Rating:      %d  (options %s)\n", f.Rating, strings.Join(opts, "/"))
		fmt.Fprintf(w, "  | [%s]\n", f.SubmitLabel)
	}
	fmt.Fprintln(w, "  +--")
}

func toolbarLine(t Toolbar) string {
	var parts []string
	if t.AddPin {
		parts = append(parts, "[Add Pin]")
	}
	if t.Logout {
		parts = append(parts, "[Log Out]")
	}
	if t.Login {
		parts = append(parts, "[Log in]")
	}
	if t.Register {
		parts = append(parts, "[Register]")
	}
	return strings.Join(parts, " ")
}
