package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"du-console/logic/query"
	"du-console/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestFetchPageNormalizesAliases(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/du/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"items":[{"_id":7,"duId":"DID1234567890123","lsp_name":"ACME","photo":"/p/1.jpg","latitude":"-6.2","update_time":"2024-01-01"}],"count":41}`)
	})
	q := query.NewCompiler(query.Config{IDKey: "du_id", SearchPath: "/api/du/search"}).
		Compile([]string{"DID1234567890123"}, nil, query.Pagination{Page: 1, PageSize: 20})

	page, err := c.FetchPage(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != q.Encode() {
		t.Fatalf("query = %s, want %s", gotQuery, q.Encode())
	}
	if page.Total != 41 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	rec := page.Items[0]
	if rec.ID != "7" || rec.DUID != "DID1234567890123" || rec.LSP != "ACME" || rec.PhotoURL != "/p/1.jpg" || rec.UpdatedAt != "2024-01-01" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Latitude == nil || *rec.Latitude != -6.2 {
		t.Fatalf("lat = %v", rec.Latitude)
	}
}

func TestNormalizePageShapes(t *testing.T) {
	nested := normalizePage(map[string]any{"data": map[string]any{"items": []any{map[string]any{"id": "1"}}, "total": 3}})
	if nested.Total != 3 || len(nested.Items) != 1 {
		t.Fatalf("nested = %+v", nested)
	}
	bare := normalizePage([]any{map[string]any{"id": "1"}, map[string]any{"id": "2"}})
	if bare.Total != 2 {
		t.Fatalf("bare = %+v", bare)
	}
	empty := normalizePage(map[string]any{})
	if empty.Items == nil || empty.Total != 0 {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestErrorDecoding(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", 404, `{"detail":"DU not found"}`, "DU not found"},
		{"detail list", 422, `{"detail":[{"msg":"bad status"},{"msg":"bad remark"}]}`, "bad status; bad remark"},
		{"message", 500, `{"message":"boom"}`, "boom"},
		{"plain", 502, `gateway`, "HTTP 502 Bad Gateway"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})
			_, err := c.FetchPage(context.Background(), query.Query{Path: "/x"})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v", err)
			}
			if apiErr.Status != tc.status || apiErr.Message != tc.want {
				t.Fatalf("got %d %q", apiErr.Status, apiErr.Message)
			}
		})
	}
}

func TestUpdateSendsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/du/update/DID1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Error(err)
			return
		}
		if r.FormValue("status") != types.StatusPOD || r.FormValue("remark") != "ok" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		if _, ok := r.MultipartForm.Value["status_delivery"]; ok {
			t.Error("empty fields must not be sent")
		}
		f, hdr, err := r.FormFile("photo")
		if err != nil {
			t.Error(err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "a.jpg" || string(data) != "JPEG" {
			t.Errorf("photo = %s %q", hdr.Filename, data)
		}
		io.WriteString(w, `{"ok":true}`)
	})
	err := c.Update(context.Background(), "/api/du/update/{id}", "DID1",
		types.UpdateRequest{Status: types.StatusPOD, Remark: "ok"},
		&Photo{Name: "a.jpg", Body: strings.NewReader("JPEG")})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDeleteAppendsID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/du/DID9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Delete(context.Background(), "/api/du/", "DID9"); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	c, err := NewClient("https://api.example.com/v1", 0)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"":                              "",
		"uploads/a.jpg":                 "https://api.example.com/v1/uploads/a.jpg",
		"/uploads/a.jpg":                "https://api.example.com/uploads/a.jpg",
		"https://cdn.example.com/a.jpg": "https://cdn.example.com/a.jpg",
	}
	for in, want := range cases {
		if got := c.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := NewClient("not a url", 0); err == nil {
		t.Fatal("expected error for relative base")
	}
}
