package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/librarian"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/session"
	"github.com/starford/ansuz/internal/store"
	"github.com/starford/ansuz/internal/testutil"
)

// testEnv sets up a memory store, stub gateway, sessions, and router.
// password == "" means disabled mode; non-empty enables the admin gate.
func testEnv(t *testing.T, password string) (*catalog.Service, *testutil.StubGateway, http.Handler) {
	t.Helper()
	ai := &testutil.StubGateway{
		Summary:     "A taut, memorable story.",
		SimilarList: []string{"Hyperion | Dan Simmons"},
	}
	svc := catalog.NewService(store.NewMemory(), ai, nil)
	sessions := session.NewManager(password)
	router := NewRouter(svc, sessions, password != "", nil)
	return svc, ai, router
}

func draftJSON(title string) []byte {
	body, _ := json.Marshal(map[string]any{
		"title":         title,
		"author":        "Frank Herbert",
		"isbn":          "9780441013593",
		"description":   "A desert planet holds the key to the empire.",
		"category":      "Science Fiction",
		"publishedDate": "1965-08-01",
		"tags":          []string{"desert"},
	})
	return body
}

func doJSON(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetBook(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Book
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.ID, "book-") {
		t.Errorf("id = %q, want book- prefix", created.ID)
	}
	if !strings.Contains(created.CoverImageURL, "picsum.photos/seed/Dune") {
		t.Errorf("cover = %q", created.CoverImageURL)
	}

	w = doJSON(t, router, http.MethodGet, "/books/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
	var got models.Book
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "Dune" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestGetBookNotFound(t *testing.T) {
	_, _, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/books/book-missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "book not found") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCreateBookValidation(t *testing.T) {
	_, _, router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"title": "Only a title"})
	w := doJSON(t, router, http.MethodPost, "/books", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "all book fields are required") {
		t.Errorf("body = %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/books", []byte("{not json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d, want 400", w.Code)
	}
}

func TestListBooksFiltering(t *testing.T) {
	_, _, router := testEnv(t, "")

	for _, title := range []string{"Dune", "Emma"} {
		w := doJSON(t, router, http.MethodPost, "/books", draftJSON(title))
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: %d", title, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/books?q=dune", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp BookListResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Books) != 1 || resp.Books[0].Title != "Dune" {
		t.Errorf("filtered books = %+v", resp.Books)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want full snapshot size 2", resp.Total)
	}
	if len(resp.Categories) == 0 || resp.Categories[0] != "All" {
		t.Errorf("categories = %v, want All first", resp.Categories)
	}

	// The "All" sentinel matches everything.
	w = doJSON(t, router, http.MethodGet, "/books?category=All", nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Books) != 2 {
		t.Errorf("All category books = %d, want 2", len(resp.Books))
	}
}

func TestUpdateBook(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	var created models.Book
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodPut, "/books/"+created.ID, draftJSON("Dune Messiah"))
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated models.Book
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.ID != created.ID {
		t.Errorf("id changed: %s -> %s", created.ID, updated.ID)
	}
	if updated.CoverImageURL != created.CoverImageURL {
		t.Error("cover changed on edit")
	}

	w = doJSON(t, router, http.MethodPut, "/books/book-missing", draftJSON("X"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("update missing status = %d, want 404", w.Code)
	}
}

func TestUpdateBookIfMatchConflict(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	var created models.Book
	json.Unmarshal(w.Body.Bytes(), &created)

	// Fetch the current ETag.
	w = doJSON(t, router, http.MethodGet, "/books/"+created.ID, nil)
	etag := w.Header().Get("ETag")

	// Stale tag is rejected.
	req := httptest.NewRequest(http.MethodPut, "/books/"+created.ID, bytes.NewReader(draftJSON("Edit A")))
	req.Header.Set("If-Match", `"stale"`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale If-Match status = %d, want 409", rec.Code)
	}

	// Current tag is accepted.
	req = httptest.NewRequest(http.MethodPut, "/books/"+created.ID, bytes.NewReader(draftJSON("Edit B")))
	req.Header.Set("If-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("current If-Match status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteBook(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	var created models.Book
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodDelete, "/books/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	// Second delete of the same id is still 204.
	w = doJSON(t, router, http.MethodDelete, "/books/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("second delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/books/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestGenerateBook(t *testing.T) {
	composed := testutil.Fixture("book-gen1")
	ai := &testutil.StubGateway{Book: &composed}
	svc := catalog.NewService(store.NewMemory(), ai, nil)
	router := NewRouter(svc, session.NewManager(""), false, nil)

	body, _ := json.Marshal(map[string]string{"prompt": "a sci-fi novel about ice"})
	w := doJSON(t, router, http.MethodPost, "/books/generate", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("generate status = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.Book
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != "book-gen1" {
		t.Errorf("id = %q", got.ID)
	}
}

func TestGenerateBookBlankPrompt(t *testing.T) {
	_, _, router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"prompt": "   "})
	w := doJSON(t, router, http.MethodPost, "/books/generate", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "please enter a prompt") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGenerateBookGatewayFailure(t *testing.T) {
	ai := &testutil.StubGateway{ComposeErr: librarian.ErrUnavailable}
	svc := catalog.NewService(store.NewMemory(), ai, nil)
	router := NewRouter(svc, session.NewManager(""), false, nil)

	body, _ := json.Marshal(map[string]string{"prompt": "anything"})
	w := doJSON(t, router, http.MethodPost, "/books/generate", body)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "try a different prompt") {
		t.Errorf("body = %s", w.Body.String())
	}

	// Nothing was stored.
	w = doJSON(t, router, http.MethodGet, "/books", nil)
	var resp BookListResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0 after failed generation", resp.Total)
	}
}

func TestSummaryAndSimilar(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	var created models.Book
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodPost, "/books/"+created.ID+"/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}
	var sum SummaryResponse
	json.Unmarshal(w.Body.Bytes(), &sum)
	if sum.Summary != "A taut, memorable story." {
		t.Errorf("summary = %q", sum.Summary)
	}

	w = doJSON(t, router, http.MethodPost, "/books/"+created.ID+"/similar", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("similar status = %d", w.Code)
	}
	var sim SimilarResponse
	json.Unmarshal(w.Body.Bytes(), &sim)
	if len(sim.Books) != 1 || sim.Books[0] != "Hyperion | Dan Simmons" {
		t.Errorf("similar = %v", sim.Books)
	}

	// Both 404 before any gateway call for unknown ids.
	w = doJSON(t, router, http.MethodPost, "/books/book-missing/summary", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing summary status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/books/book-missing/similar", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing similar status = %d", w.Code)
	}
}

func TestAdminGateDisabledMode(t *testing.T) {
	_, _, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	if w.Code != http.StatusCreated {
		t.Fatalf("disabled mode create status = %d", w.Code)
	}
}

func TestAdminGateEnforced(t *testing.T) {
	_, _, router := testEnv(t, "opensesame")

	// Reads and generation stay public.
	if w := doJSON(t, router, http.MethodGet, "/books", nil); w.Code != http.StatusOK {
		t.Fatalf("public list status = %d", w.Code)
	}

	// Mutations are rejected without the flag.
	w := doJSON(t, router, http.MethodPost, "/books", draftJSON("Dune"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "admin session required") {
		t.Errorf("body = %s", w.Body.String())
	}

	// Wrong password is rejected.
	body, _ := json.Marshal(map[string]string{"password": "wrong"})
	w = doJSON(t, router, http.MethodPost, "/session", body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", w.Code)
	}

	// Correct password sets the session cookie.
	body, _ = json.Marshal(map[string]string{"password": "opensesame"})
	w = doJSON(t, router, http.MethodPost, "/session", body)
	if w.Code != http.StatusNoContent {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	withSession := func(method, path string, payload []byte) *httptest.ResponseRecorder {
		var req *http.Request
		if payload != nil {
			req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// Flag reported, mutation accepted.
	rec := withSession(http.MethodGet, "/session", nil)
	var status SessionResponse
	json.Unmarshal(rec.Body.Bytes(), &status)
	if !status.Admin {
		t.Error("session status admin = false after login")
	}
	rec = withSession(http.MethodPost, "/books", draftJSON("Dune"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("authenticated create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Logout clears the flag.
	rec = withSession(http.MethodDelete, "/session", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
}
