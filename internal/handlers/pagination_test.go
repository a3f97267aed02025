package handlers

import (
	"net/http"
	"testing"

	"github.com/pinet/pinet/internal/models"
)

func TestParsePaginationParams(t *testing.T) {
	if _, _, paged, err := parsePaginationParams("", ""); err != nil || paged {
		t.Fatalf("expected unpaged, got paged=%v err=%v", paged, err)
	}

	page, limit, paged, err := parsePaginationParams("2", "")
	if err != nil || !paged || page != 2 || limit != 20 {
		t.Fatalf("unexpected page=%d limit=%d paged=%v err=%v", page, limit, paged, err)
	}

	for _, tc := range [][2]string{{"0", ""}, {"", "-1"}, {"x", "5"}} {
		if _, _, _, err := parsePaginationParams(tc[0], tc[1]); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", tc[0], tc[1])
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := paginate(items, 2, 2); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("unexpected window %v", got)
	}
	if got := paginate(items, 3, 2); len(got) != 1 || got[0] != 5 {
		t.Fatalf("unexpected last window %v", got)
	}
	if got := paginate(items, 4, 2); len(got) != 0 {
		t.Fatalf("expected empty window, got %v", got)
	}
}

func TestGetPinsPaged(t *testing.T) {
	r := newTestRouter(t)
	for _, title := range []string{"One", "Two", "Three"} {
		body := `{"username":"alice","title":"` + title + `","desc":"desc","rating":1,"lat":1,"long":2}`
		if w := doJSON(t, r, http.MethodPost, "/pins", body, ""); w.Code != http.StatusCreated {
			t.Fatalf("create %s: %d", title, w.Code)
		}
	}

	pins := decode[[]models.Pin](t, doJSON(t, r, http.MethodGet, "/pins?page=2&limit=2", "", ""))
	if len(pins) != 1 || pins[0].Title != "Three" {
		t.Fatalf("unexpected page: %#v", pins)
	}

	if w := doJSON(t, r, http.MethodGet, "/pins?limit=0", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
