package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/config"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/game"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

type stubFetcher struct {
	gate chan struct{}
}

func (f *stubFetcher) CategoryIDs(ctx context.Context, n int) ([]string, error) {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return ids, nil
}

func (f *stubFetcher) Category(ctx context.Context, id string) (trivia.Category, error) {
	if f.gate != nil {
		<-f.gate
	}
	if id == "0" {
		return trivia.Category{ID: id, Title: "Math", Clues: []trivia.Clue{
			{Question: "2x2", Answer: "4", State: trivia.StateHidden},
			{Question: "1+1", Answer: "2", State: trivia.StateHidden},
			{Question: "3+3", Answer: "6", State: trivia.StateHidden},
		}}, nil
	}
	cat := trivia.Category{ID: id, Title: "Cat " + id}
	for i := 0; i < 5; i++ {
		cat.Clues = append(cat.Clues, trivia.Clue{Question: "q", Answer: "a", State: trivia.StateHidden})
	}
	return cat, nil
}

type stubPurger struct{ calls int }

func (p *stubPurger) Purge(ctx context.Context) (int64, error) {
	p.calls++
	return 3, nil
}

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T, f *stubFetcher, mutate func(*Deps)) *testClient {
	t.Helper()
	cfg := config.Default()
	cfg.MinSpinner = 0
	d := Deps{Config: cfg, Fetcher: f}
	if mutate != nil {
		mutate(&d)
	}
	s, err := New(d)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return newClient(t, ts.URL)
}

func newClient(t *testing.T, base string) *testClient {
	jar, _ := cookiejar.New(nil)
	return &testClient{t: t, base: base, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path, body string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, strings.NewReader(body))
	if err != nil {
		c.t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.http.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res, string(b)
}

func (c *testClient) startAndWait() game.View {
	c.t.Helper()
	res, body := c.do(http.MethodPost, "/api/game/start", "")
	if res.StatusCode != http.StatusAccepted {
		c.t.Fatalf("start = %d %s", res.StatusCode, body)
	}
	_, body = c.do(http.MethodGet, "/api/game?wait=1", "")
	var v game.View
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		c.t.Fatalf("decode view: %v (%s)", err, body)
	}
	return v
}

func TestIndexSetsBoardCookie(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	res, body := c.do(http.MethodGet, "/", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(body, `class="start-btn"`) || !strings.Contains(body, ">Start<") {
		t.Fatalf("page missing start button: %s", body)
	}
	var found bool
	for _, ck := range res.Cookies() {
		found = found || ck.Name == "jeopardy_board"
	}
	if !found {
		t.Fatal("no board cookie")
	}
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	res, body := c.do(http.MethodGet, "/health", "")
	if res.StatusCode != http.StatusOK || !strings.Contains(body, `"ok":true`) {
		t.Fatalf("health = %d %s", res.StatusCode, body)
	}
}

func TestJSONStartRendersGrid(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	v := c.startAndWait()
	if !v.Ready() || v.Grid == nil {
		t.Fatalf("view = %+v", v)
	}
	if len(v.Grid.Headers) != 6 || v.Grid.CellCount() != 30 {
		t.Fatalf("grid = %d headers, %d cells", len(v.Grid.Headers), v.Grid.CellCount())
	}
}

func TestHTMLClueFlow(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	v := c.startAndWait()
	path := "/game/clue/00?gen=" + strconv.FormatUint(uint64(v.Generation), 10)

	for i, want := range []string{"2x2", "4", "4"} {
		res, body := c.do(http.MethodPost, path, "")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("click %d status = %d", i+1, res.StatusCode)
		}
		if !strings.Contains(body, `data-index="00"`) || !strings.Contains(body, ">"+want+"</td>") {
			t.Fatalf("click %d body = %s", i+1, body)
		}
	}

	// board fragment keeps the revealed answer
	_, body := c.do(http.MethodGet, "/game/board", "")
	if !strings.Contains(body, ">4</td>") || strings.Count(body, `class="quiz`) != 30 {
		t.Fatalf("board = %s", body)
	}
}

func TestHTMLShortfallAndRange(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	v := c.startAndWait()
	gen := strconv.FormatUint(uint64(v.Generation), 10)

	for i := 0; i < 3; i++ {
		_, body := c.do(http.MethodPost, "/game/clue/04?gen="+gen, "")
		if !strings.Contains(body, ">?</td>") || !strings.Contains(body, "unbacked") {
			t.Fatalf("shortfall cell = %s", body)
		}
	}
	if res, _ := c.do(http.MethodPost, "/game/clue/99?gen="+gen, ""); res.StatusCode != http.StatusNoContent {
		t.Fatalf("out of range status = %d", res.StatusCode)
	}
}

func TestStaleGenerationClick(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	first := c.startAndWait()
	c.startAndWait()

	body := `{"generation":` + strconv.FormatUint(uint64(first.Generation), 10) + `,"category":0,"clue":0}`
	_, resBody := c.do(http.MethodPost, "/api/game/clue", body)
	var out game.Outcome
	if err := json.Unmarshal([]byte(resBody), &out); err != nil {
		t.Fatal(err)
	}
	if out.Result != game.Inert || out.Cell.Text != "?" {
		t.Fatalf("stale click = %+v", out)
	}
}

func TestRestartWhileLoading(t *testing.T) {
	f := &stubFetcher{gate: make(chan struct{})}
	c := newTestServer(t, f, nil)

	if res, _ := c.do(http.MethodPost, "/api/game/start", ""); res.StatusCode != http.StatusAccepted {
		t.Fatalf("first start = %d", res.StatusCode)
	}
	res, body := c.do(http.MethodPost, "/api/game/start", "")
	if res.StatusCode != http.StatusConflict || !strings.Contains(body, `"started":false`) {
		t.Fatalf("second start = %d %s", res.StatusCode, body)
	}
	_, body = c.do(http.MethodPost, "/game/start", "")
	if !strings.Contains(body, `data-phase="loading"`) || strings.Contains(body, "<table") {
		t.Fatalf("board while loading = %s", body)
	}
	close(f.gate)

	_, body = c.do(http.MethodGet, "/api/game?wait=1", "")
	if !strings.Contains(body, `"phase":"ready"`) || !strings.Contains(body, `"generation":1`) {
		t.Fatalf("view = %s", body)
	}
}

func TestBoardsAreIsolated(t *testing.T) {
	a := newTestServer(t, &stubFetcher{}, nil)
	a.startAndWait()

	b := newClient(t, a.base)
	_, body := b.do(http.MethodGet, "/api/game", "")
	if !strings.Contains(body, `"phase":"idle"`) {
		t.Fatalf("second browser sees %s", body)
	}
}

func TestTamperedCookieGetsNewBoard(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	req, _ := http.NewRequest(http.MethodGet, c.base+"/api/game", nil)
	req.AddCookie(&http.Cookie{Name: "jeopardy_board", Value: "not-a-jwt"})
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if len(res.Cookies()) == 0 {
		t.Fatal("expected a fresh board cookie")
	}
}

func TestAdminPurge(t *testing.T) {
	hash, err := HashPassword("letmein")
	if err != nil {
		t.Fatal(err)
	}
	p := &stubPurger{}
	c := newTestServer(t, &stubFetcher{}, func(d *Deps) {
		d.Cache = p
		d.Config.AdminPasswordHash = hash
	})

	req, _ := http.NewRequest(http.MethodPost, c.base+"/admin/cache/purge", nil)
	req.SetBasicAuth("admin", "wrong")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized || p.calls != 0 {
		t.Fatalf("wrong password: %d, calls=%d", res.StatusCode, p.calls)
	}

	req, _ = http.NewRequest(http.MethodPost, c.base+"/admin/cache/purge", nil)
	req.SetBasicAuth("admin", "letmein")
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || !strings.Contains(string(b), `"purged":3`) {
		t.Fatalf("purge = %d %s", res.StatusCode, b)
	}
}

func TestAdminNotMountedWithoutHash(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, func(d *Deps) { d.Cache = &stubPurger{} })
	if res, _ := c.do(http.MethodPost, "/admin/cache/purge", ""); res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestAPINotFoundIsJSON(t *testing.T) {
	c := newTestServer(t, &stubFetcher{}, nil)
	res, body := c.do(http.MethodGet, "/api/nope", "")
	if res.StatusCode != http.StatusNotFound || !strings.Contains(body, "not_found") {
		t.Fatalf("= %d %s", res.StatusCode, body)
	}
}
