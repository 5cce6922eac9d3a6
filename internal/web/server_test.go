package web // nolint:testpackage

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"rankle/internal/back"
	"strings"
	"testing"

	migratepkg "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "rankle-test.db")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		t.Fatal(err)
	}

	m, err := migratepkg.NewWithDatabaseInstance("file://../../migrations", "sqlite3", driver)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Up(); err != nil {
		t.Fatal(err)
	}

	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := back.New("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}

	return NewServer(b, "127.0.0.1:0", "*")
}

func doRequest(s *Server, method, target, tenantKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if tenantKey != "" {
		req.Header.Set("X-Tenant-Key", tenantKey)
	}

	w := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(w, req)

	return w
}

func TestSubmitAndReadBack(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/scores", "t1",
		`{"player": "Ann", "score": "#Tradle #100 3/6"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Score struct {
			Player     string `json:"player"`
			GameNumber int    `json:"gameNumber"`
			Score      int    `json:"score"`
			Solved     bool   `json:"solved"`
		} `json:"score"`
		Rating struct {
			Rating             float64 `json:"rating"`
			ConservativeRating int     `json:"conservativeRating"`
		} `json:"rating"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	if created.Score.Player != "Ann" || created.Score.GameNumber != 100 ||
		created.Score.Score != 3 || !created.Score.Solved {
		t.Errorf("unexpected score payload: %+v", created.Score)
	}
	if created.Rating.Rating != 1500 || created.Rating.ConservativeRating != 800 {
		t.Errorf("unexpected rating payload: %+v", created.Rating)
	}

	w = doRequest(s, http.MethodGet, "/api/scores", "t1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var feed struct {
		Scores []json.RawMessage `json:"scores"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &feed); err != nil {
		t.Fatal(err)
	}
	if len(feed.Scores) != 1 {
		t.Errorf("expected 1 score in the feed, got %d", len(feed.Scores))
	}

	w = doRequest(s, http.MethodGet, "/api/ratings", "t1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var board struct {
		Ratings []struct {
			Player string  `json:"player"`
			Rating float64 `json:"rating"`
		} `json:"ratings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatal(err)
	}
	if len(board.Ratings) != 1 || board.Ratings[0].Player != "Ann" {
		t.Errorf("unexpected leaderboard: %+v", board.Ratings)
	}

	w = doRequest(s, http.MethodGet, "/api/history/Ann", "t1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSubmitErrors(t *testing.T) {
	s := newTestServer(t)

	type entry struct {
		tenantKey, body string
		expected        int
	}

	cases := []entry{
		{"", `{"player": "Ann", "score": "#Tradle #100 3/6"}`, http.StatusUnauthorized},
		{"t1", `not json`, http.StatusBadRequest},
		{"t1", `{"player": "", "score": "#Tradle #100 3/6"}`, http.StatusBadRequest},
		{"t1", `{"player": "Ann", "score": "hello"}`, http.StatusBadRequest},
		{"t1", `{"player": "Ann", "score": "#Tradle #100 3/6"}`, http.StatusCreated},
		{"t1", `{"player": "Ann", "score": "#Tradle #100 5/6"}`, http.StatusConflict},
	}

	for k, v := range cases {
		w := doRequest(s, http.MethodPost, "/api/scores", v.tenantKey, v.body)
		if w.Code != v.expected {
			t.Errorf("case #%d: expected %d got %d (%s)", k, v.expected, w.Code, w.Body.String())
		}
	}
}

func TestTenantKeyFromQueryParam(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/scores?key=t1", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with ?key=, got %d", w.Code)
	}

	w = doRequest(s, http.MethodGet, "/api/scores?id=t1", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with ?id=, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodOptions, "/api/scores", "", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 on preflight, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", origin)
	}
}
