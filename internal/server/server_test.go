package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/pods"
	"github.com/matzehuels/podlens/pkg/readme"
)

const fence = "```"

type fakeService struct {
	parser *pods.Service

	podErr  error
	repoErr error
	cached  bool
	panics  bool

	gotName    string
	gotRef     string
	gotRefresh bool
}

func (f *fakeService) LookupPod(_ context.Context, name string, req pods.Request) (*pods.Result, error) {
	if f.panics {
		panic("boom")
	}
	f.gotName, f.gotRefresh = name, req.Refresh
	if f.podErr != nil {
		return nil, f.podErr
	}
	res := sampleResult()
	res.Name = name
	res.Cached = f.cached
	return res, nil
}

func (f *fakeService) LookupRepo(_ context.Context, ref string, req pods.Request) (*pods.Result, error) {
	f.gotRef, f.gotRefresh = ref, req.Refresh
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return sampleResult(), nil
}

func (f *fakeService) ParseDocument(ctx context.Context, name, text string) *pods.Result {
	return f.parser.ParseDocument(ctx, name, text)
}

func sampleResult() *pods.Result {
	return &pods.Result{
		Name:       "Alamofire",
		Version:    "5.9.1",
		Repository: "https://github.com/Alamofire/Alamofire",
		Examples: []readme.UsageExample{
			{Title: "Usage", Code: "AF.request(url)", Language: "swift"},
			{Title: "Usage 2", Code: "[AFHTTPSessionManager manager];", Language: "objc"},
			{Title: "Usage 3", Code: "AF.download(url)", Language: "swift"},
		},
		Installation: readme.InstallationInstructions{Podfile: "pod 'Alamofire', '~> 5.9'"},
	}
}

func newTestServer(t *testing.T, svc *fakeService, cfg Config) *Server {
	t.Helper()
	parser, err := pods.NewService(pods.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { parser.Close() })
	svc.parser = parser

	srv, err := New(svc, log.New(io.Discard), cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) pods.Result {
	t.Helper()
	var res pods.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(nil, log.New(io.Discard), Config{}); err == nil {
		t.Error("New(nil service) expected error")
	}
	if _, err := New(&fakeService{}, nil, Config{}); err == nil {
		t.Error("New(nil logger) expected error")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, Config{})
	rec := do(t, srv, http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestGetPod(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, Config{})

	rec := do(t, srv, http.MethodGet, "/v1/pods/Alamofire", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := rec.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	res := decodeResult(t, rec)
	if res.Name != "Alamofire" || len(res.Examples) != 3 {
		t.Errorf("result = %+v", res)
	}
	if svc.gotName != "Alamofire" || svc.gotRefresh {
		t.Errorf("service got name=%q refresh=%v", svc.gotName, svc.gotRefresh)
	}
}

func TestGetPodShaping(t *testing.T) {
	tests := []struct {
		query     string
		wantCount int
		wantLang  string
	}{
		{"?lang=swift", 2, "swift"},
		{"?lang=SWIFT&limit=1", 1, "swift"},
		{"?lang=objc", 1, "objc"},
		{"?limit=2", 2, ""},
		{"?limit=0", 3, ""},
		{"?lang=kotlin", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			srv := newTestServer(t, &fakeService{}, Config{})
			rec := do(t, srv, http.MethodGet, "/v1/pods/Alamofire"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			res := decodeResult(t, rec)
			if len(res.Examples) != tt.wantCount {
				t.Fatalf("examples = %d, want %d", len(res.Examples), tt.wantCount)
			}
			for _, ex := range res.Examples {
				if tt.wantLang != "" && ex.Language != tt.wantLang {
					t.Errorf("language = %q, want %q", ex.Language, tt.wantLang)
				}
			}
			if res.Stats.Examples != 0 {
				t.Errorf("stats should come from the service result, got %d", res.Stats.Examples)
			}
		})
	}
}

func TestGetPodRefreshAndCacheHeader(t *testing.T) {
	svc := &fakeService{cached: true}
	srv := newTestServer(t, svc, Config{})

	rec := do(t, srv, http.MethodGet, "/v1/pods/Alamofire?refresh=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !svc.gotRefresh {
		t.Error("refresh=true not passed to service")
	}
	if got := rec.Header().Get(HeaderCache); got != "hit" {
		t.Errorf("X-Cache = %q, want hit", got)
	}
}

func TestBadQuery(t *testing.T) {
	for _, q := range []string{"?limit=-1", "?limit=abc", "?refresh=maybe"} {
		t.Run(q, func(t *testing.T) {
			srv := newTestServer(t, &fakeService{}, Config{})
			rec := do(t, srv, http.MethodGet, "/v1/pods/Alamofire"+q, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeError(t, rec); got.Code != perrors.ErrCodeInvalidInput {
				t.Errorf("code = %q, want INVALID_INPUT", got.Code)
			}
		})
	}
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   perrors.Code
	}{
		{"invalid pod", perrors.New(perrors.ErrCodeInvalidPackage, "bad name"), http.StatusBadRequest, perrors.ErrCodeInvalidPackage},
		{"pod not found", perrors.New(perrors.ErrCodePackageNotFound, "pod %q", "Nope"), http.StatusNotFound, perrors.ErrCodePackageNotFound},
		{"readme not found", perrors.New(perrors.ErrCodeReadmeNotFound, "readme"), http.StatusNotFound, perrors.ErrCodeReadmeNotFound},
		{"rate limited", perrors.New(perrors.ErrCodeRateLimited, "slow down"), http.StatusTooManyRequests, perrors.ErrCodeRateLimited},
		{"network", perrors.New(perrors.ErrCodeNetwork, "upstream"), http.StatusBadGateway, perrors.ErrCodeNetwork},
		{"unsupported", perrors.New(perrors.ErrCodeUnsupported, "off"), http.StatusNotImplemented, perrors.ErrCodeUnsupported},
		{"deadline", context.DeadlineExceeded, http.StatusBadGateway, perrors.ErrCodeTimeout},
		{"uncoded", errors.New("secret detail"), http.StatusInternalServerError, perrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeService{podErr: tt.err}, Config{})
			rec := do(t, srv, http.MethodGet, "/v1/pods/Whatever", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			got := decodeError(t, rec)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if strings.Contains(got.Message, "secret detail") {
				t.Error("internal error message leaked")
			}
		})
	}
}

func TestGetInstallation(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, Config{})
	rec := do(t, srv, http.MethodGet, "/v1/pods/Alamofire/installation", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body installationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Name != "Alamofire" || body.Installation.Podfile == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestGetRepo(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, Config{})

	rec := do(t, srv, http.MethodGet, "/v1/repos/Alamofire/Alamofire?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.gotRef != "Alamofire/Alamofire" {
		t.Errorf("ref = %q", svc.gotRef)
	}
	if res := decodeResult(t, rec); len(res.Examples) != 1 {
		t.Errorf("examples = %d, want 1", len(res.Examples))
	}

	svc.repoErr = perrors.New(perrors.ErrCodeInvalidRepo, "bad")
	rec = do(t, srv, http.MethodGet, "/v1/repos/a/b", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestParse(t *testing.T) {
	doc := strings.Join([]string{
		"# Usage",
		"",
		fence + "swift",
		"import Foo",
		"Foo().run()",
		fence,
		"",
		"## Installation",
		"",
		fence + "ruby",
		"pod 'FooKit'",
		fence,
	}, "\n")

	srv := newTestServer(t, &fakeService{}, Config{})

	rec := do(t, srv, http.MethodPost, "/v1/parse?name=Foo", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	res := decodeResult(t, rec)
	if res.Name != "Foo" || len(res.Examples) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Stats.Examples != 2 || res.Stats.ByLanguage["swift"] != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}

	rec = do(t, srv, http.MethodPost, "/v1/parse?lang=ruby", doc)
	res = decodeResult(t, rec)
	if res.Name != "document" || len(res.Examples) != 1 || res.Examples[0].Language != "ruby" {
		t.Errorf("filtered result = %+v", res)
	}
}

func TestParseRejectsBadBodies(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, Config{})

	rec := do(t, srv, http.MethodPost, "/v1/parse", "  \n ")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/v1/parse", strings.Repeat("a", MaxDocumentSize+1))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body status = %d, want 413", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != perrors.ErrCodeInvalidInput {
		t.Errorf("code = %q", got.Code)
	}
}

func TestRoutingErrors(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, Config{})

	rec := do(t, srv, http.MethodGet, "/v2/nothing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != perrors.ErrCodeNotFound {
		t.Errorf("code = %q", got.Code)
	}

	rec = do(t, srv, http.MethodGet, "/v1/parse", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/parse status = %d, want 405", rec.Code)
	}
}

func TestPanicRecovered(t *testing.T) {
	srv := newTestServer(t, &fakeService{panics: true}, Config{})
	rec := do(t, srv, http.MethodGet, "/v1/pods/Alamofire", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "podlens_test_total",
		Help: "test counter",
	}).Add(3)

	srv := newTestServer(t, &fakeService{}, Config{Gatherer: reg})
	rec := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "podlens_test_total 3") {
		t.Errorf("metrics output missing counter:\n%s", rec.Body)
	}
}

func TestAccessLog(t *testing.T) {
	var buf strings.Builder
	svc := &fakeService{}
	parser, _ := pods.NewService(pods.Options{})
	defer parser.Close()
	svc.parser = parser

	srv, err := New(svc, log.New(&buf), Config{})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/pods/Alamofire", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"http request", "/v1/pods/Alamofire", "status=200", "request_id=req-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log missing %q: %s", want, out)
		}
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, Config{ShutdownTimeout: time.Second})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
