// Package cli is the terminal front-end of the map client: each command is a
// gesture or a panel action, and the composed view is printed after it.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pinet/pinet/internal/app"
	"github.com/pinet/pinet/internal/mapctl"
	"github.com/pinet/pinet/internal/view"
)

const helpText = `commands:
  dblclick LAT LNG   open a new pin form at the coordinates
  click ID           show the pin with that id
  close              close the popup
  title TEXT         set the draft title
  desc TEXT          set the draft description
  rating N           set the draft rating (1-5)
  submit             save the draft
  login              log in
  register           create an account
  cancel             close the login/register panel
  logout             log out
  pins               list loaded pins
  show               print the map
  help               this text
  quit               exit`

type UI struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer
}

func NewUI(a *app.App, in *bufio.Reader, out io.Writer) *UI {
	return &UI{app: a, in: in, out: out}
}

// Run reads commands until quit or end of input.
func (ui *UI) Run(ctx context.Context) {
	ui.show()
	for {
		fmt.Fprint(ui.out, "> ")
		line, err := ui.in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		if !ui.Exec(ctx, strings.TrimSpace(line)) {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Exec runs a single command line. It reports false once the user asked to quit.
func (ui *UI) Exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return true
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprintln(ui.out, helpText)
		return true
	case "show":
	case "pins":
		ui.listPins()
		return true
	case "dblclick":
		lat, lng, err := parseCoords(rest)
		if err != nil {
			ui.fail(err)
			return true
		}
		ui.app.Map.DoubleClick(lat, lng)
	case "click":
		if err := ui.app.Map.ClickMarker(rest); err != nil {
			ui.fail(err)
			return true
		}
	case "close":
		ui.app.Map.ClosePopup()
	case "title":
		if err := ui.app.Map.SetTitle(rest); err != nil {
			ui.fail(err)
			return true
		}
	case "desc":
		if err := ui.app.Map.SetDesc(rest); err != nil {
			ui.fail(err)
			return true
		}
	case "rating":
		n, err := strconv.Atoi(rest)
		if err != nil {
			ui.fail(mapctl.ErrInvalidRating)
			return true
		}
		if err := ui.app.Map.SetRating(n); err != nil {
			ui.fail(err)
			return true
		}
	case "submit":
		if _, err := ui.app.Map.Submit(ctx); err != nil {
			if errors.Is(err, mapctl.ErrNoDraft) {
				ui.fail(err)
				return true
			}
			fmt.Fprintln(ui.out, "pin not saved, the form is still open")
		}
	case "login":
		ui.login(ctx)
	case "register":
		ui.register(ctx)
	case "cancel":
		ui.app.Auth.CloseLogin()
		ui.app.Auth.CloseRegister()
	case "logout":
		if err := ui.app.Auth.Logout(); err != nil {
			ui.fail(err)
		}
	default:
		fmt.Fprintf(ui.out, "unknown command %q, try help\n", cmd)
		return true
	}

	ui.show()
	return true
}

func (ui *UI) login(ctx context.Context) {
	if !ui.app.Session.Get().Anonymous() {
		fmt.Fprintln(ui.out, "already logged in")
		return
	}
	ui.app.Auth.CloseRegister()
	ui.app.Auth.OpenLogin()
	ui.show()

	username := ui.prompt("username: ")
	password := ui.prompt("password: ")
	_, _ = ui.app.Auth.Login(ctx, username, password)
}

func (ui *UI) register(ctx context.Context) {
	if !ui.app.Session.Get().Anonymous() {
		fmt.Fprintln(ui.out, "log out first")
		return
	}
	ui.app.Auth.CloseLogin()
	ui.app.Auth.OpenRegister()
	ui.show()

	username := ui.prompt("username: ")
	email := ui.prompt("email: ")
	password := ui.prompt("password: ")
	_ = ui.app.Auth.Register(ctx, username, email, password)
}

func (ui *UI) listPins() {
	pins := ui.app.Pins.Pins()
	if len(pins) == 0 {
		fmt.Fprintln(ui.out, "no pins")
		return
	}
	for _, p := range pins {
		fmt.Fprintf(ui.out, "- %s  %q by %s  (%.5f, %.5f)\n", p.ID, p.Title, ownerLabel(p.Username), p.Lat, p.Long)
	}
}

func (ui *UI) show() {
	view.Render(ui.out, ui.app.View())
}

func (ui *UI) fail(err error) {
	fmt.Fprintln(ui.out, "error:", err)
}

func (ui *UI) prompt(label string) string {
	fmt.Fprint(ui.out, label)
	line, _ := ui.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func parseCoords(s string) (float64, float64, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 2 {
		return 0, 0, errors.New("usage: dblclick LAT LNG")
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude: %w", err)
	}
	return lat, lng, nil
}

func ownerLabel(username string) string {
	if username == "" {
		return "anonymous"
	}
	return username
}
