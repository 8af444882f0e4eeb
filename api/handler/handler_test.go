package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"du-console/api/handler"
	"du-console/api/middleware"
	"du-console/api/response"
	"du-console/api/router"
	"du-console/service"
	"du-console/storage/backend"
	"du-console/vars"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// newServer 启动一个假后端，并返回接在它上面的 gin 引擎
func newServer(t *testing.T, fake http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)

	cfg := vars.Default()
	client, err := backend.NewClient(upstream.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	profiles, err := service.BuildProfiles(cfg)
	if err != nil {
		t.Fatal(err)
	}
	duSvc := service.NewDUService(profiles, client, service.ExportOptions{PageSize: 2})
	sumSvc := service.NewSummaryService(profiles[vars.ProfileDU], client, []string{"POD"})

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Session(vars.SessionCookie))
	router.RegisterRoutes(r, handler.NewDUHandler(duSvc, sumSvc))
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func TestTokensEndpoint(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, _ *http.Request) {})
	_, env := do(t, r, http.MethodPost, "/api/v1/du/tokens", `{"text":"did1234567890123","input_type":"insertText"}`)
	if env.Code != 0 {
		t.Fatalf("env = %+v", env)
	}
	var res service.TokenResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if res.State.Text != "did1234567890123\nDID" || res.State.Tokens[0] != "DID1234567890123" {
		t.Fatalf("state = %+v", res.State)
	}
	if !strings.Contains(res.HTML, `<span class="hl-ok">did1234567890123</span>`) {
		t.Fatalf("html = %s", res.HTML)
	}

	_, env = do(t, r, http.MethodPost, "/api/v1/xx/tokens", `{"text":"a"}`)
	if env.Code != -1 || !strings.Contains(env.Msg, "unknown profile") {
		t.Fatalf("env = %+v", env)
	}
}

func TestCompileEndpoint(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, _ *http.Request) {})
	_, env := do(t, r, http.MethodPost, "/api/v1/dn/compile",
		`{"text":"AB1C2123456789","filters":{"status":["POD"],"date_from":["2024-05-01"]}}`)
	var got struct {
		Mode  string `json:"mode"`
		Path  string `json:"path"`
		Query string `json:"query"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	want := "date_from=2024-04-30T17%3A00%3A00.000Z&dn_number=AB1C2123456789&page=1&page_size=20&status=POD"
	if got.Mode != "single" || got.Path != "/api/dn/list/search" || got.Query != want {
		t.Fatalf("got %+v", got)
	}
}

func TestSearchEndpointPropagatesBackendError(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"status not allowed"}`)
	})
	_, env := do(t, r, http.MethodPost, "/api/v1/du/search", `{"filters":{"status":["X"]}}`)
	if env.Code != -1 || env.Msg != "query failed: status not allowed" {
		t.Fatalf("env = %+v", env)
	}
}

func TestSearchEndpointInvalidTokens(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called for invalid tokens")
	})
	_, env := do(t, r, http.MethodPost, "/api/v1/du/search", `{"text":"DID1\nDID1234567890123"}`)
	if env.Code != -1 || !strings.Contains(string(env.Data), "DID1") {
		t.Fatalf("env = %+v", env)
	}
}

func TestExportEndpoint(t *testing.T) {
	var pages []string
	r := newServer(t, func(w http.ResponseWriter, req *http.Request) {
		pages = append(pages, req.URL.Query().Get("page"))
		io.WriteString(w, `{"items":[{"id":"`+req.URL.Query().Get("page")+`","remark":"a,b"}],"total":3}`)
	})
	w, _ := do(t, r, http.MethodPost, "/api/v1/du/export?format=csv", `{}`)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("status=%d type=%s body=%s", w.Code, w.Header().Get("Content-Type"), w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), `filename="du-export-`) {
		t.Fatalf("disposition = %s", w.Header().Get("Content-Disposition"))
	}
	if strings.Join(pages, ",") != "1,2" {
		t.Fatalf("pages = %v", pages)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\xEF\xBB\xBF")) || !strings.Contains(w.Body.String(), `"a,b"`) {
		t.Fatalf("body = %q", w.Body.String())
	}

	_, env := do(t, r, http.MethodPost, "/api/v1/du/export?format=pdf", `{}`)
	if env.Code != -1 {
		t.Fatalf("env = %+v", env)
	}
}

func TestExportLastNeedsSearch(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"items":[],"total":0}`)
	})
	_, env := do(t, r, http.MethodGet, "/api/v1/du/export", "")
	if env.Code != -1 || !strings.Contains(env.Msg, "no previous search") {
		t.Fatalf("env = %+v", env)
	}
}

func TestUpdateEndpoint(t *testing.T) {
	var gotPath, gotStatus, gotPhoto string
	r := newServer(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		if err := req.ParseMultipartForm(1 << 20); err == nil {
			gotStatus = req.FormValue("status")
			if f, _, err := req.FormFile("photo"); err == nil {
				b, _ := io.ReadAll(f)
				gotPhoto = string(b)
				f.Close()
			}
		}
		io.WriteString(w, `{}`)
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("status", "POD")
	fw, _ := mw.CreateFormFile("photo", "pod.jpg")
	fw.Write([]byte("IMG"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/du/records/DID1234567890123", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Code != 0 {
		t.Fatalf("resp = %s", w.Body.String())
	}
	if gotPath != "/api/du/update/DID1234567890123" || gotStatus != "POD" || gotPhoto != "IMG" {
		t.Fatalf("path=%s status=%s photo=%s", gotPath, gotStatus, gotPhoto)
	}
}

func TestDeleteAndSummary(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, `{"items":[],"total":12}`)
	})
	if _, env := do(t, r, http.MethodDelete, "/api/v1/dn/records/DN1", ""); env.Code != 0 {
		t.Fatalf("delete env = %+v", env)
	}
	_, env := do(t, r, http.MethodGet, "/api/v1/summary", "")
	if env.Code != 0 || !strings.Contains(string(env.Data), `"total":12`) {
		t.Fatalf("summary env = %+v", env)
	}
}

func TestRequestIDAndSessionCookie(t *testing.T) {
	r := newServer(t, func(w http.ResponseWriter, _ *http.Request) {})
	w, _ := do(t, r, http.MethodGet, "/health", "")
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatal("missing request id")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), vars.SessionCookie+"=") {
		t.Fatalf("cookie = %s", w.Header().Get("Set-Cookie"))
	}
}
