package uploader

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRepo struct {
	files map[string]string // path -> sha
	puts  []GitHubUploadRequest
	auth  []string
}

func (f *fakeRepo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	path := strings.TrimPrefix(r.URL.Path, "/repos/owner/calendars/contents/")
	switch r.Method {
	case http.MethodGet:
		sha, ok := f.files[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(contentResponse{SHA: sha})
	case http.MethodPut:
		var body GitHubUploadRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if sha, ok := f.files[path]; ok && body.SHA != sha {
			http.Error(w, `{"message":"sha wasn't supplied"}`, http.StatusUnprocessableEntity)
			return
		}
		f.puts = append(f.puts, body)
		f.files[path] = "new-sha"
		w.WriteHeader(http.StatusCreated)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "EEB.ics")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadCreatesFile(t *testing.T) {
	repo := &fakeRepo{files: map[string]string{}}
	srv := httptest.NewServer(repo)
	defer srv.Close()

	local := writeFile(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	p := New("secret", "owner/calendars", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	if err := p.Upload(context.Background(), "rooms/EEB.ics", local, "Update EEB.ics"); err != nil {
		t.Fatal(err)
	}

	if len(repo.puts) != 1 {
		t.Fatalf("puts = %d, want 1", len(repo.puts))
	}
	put := repo.puts[0]
	if put.SHA != "" {
		t.Errorf("sha = %q, want empty for a new file", put.SHA)
	}
	if put.Message != "Update EEB.ics" {
		t.Errorf("message = %q", put.Message)
	}
	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n" {
		t.Errorf("content = %q", decoded)
	}
	for _, a := range repo.auth {
		if a != "Bearer secret" {
			t.Errorf("Authorization = %q", a)
		}
	}
}

func TestUploadReplacesExistingFile(t *testing.T) {
	repo := &fakeRepo{files: map[string]string{"rooms/EEB.ics": "abc123"}}
	srv := httptest.NewServer(repo)
	defer srv.Close()

	local := writeFile(t, "data")
	p := New("secret", "owner/calendars", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err := p.Upload(context.Background(), "/rooms/EEB.ics", local, "Update EEB.ics"); err != nil {
		t.Fatal(err)
	}
	if len(repo.puts) != 1 || repo.puts[0].SHA != "abc123" {
		t.Fatalf("puts = %+v, want one carrying sha abc123", repo.puts)
	}
}

func TestUploadReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.NotFound(w, r)
			return
		}
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	local := writeFile(t, "data")
	p := New("bad", "owner/calendars", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	err := p.Upload(context.Background(), "EEB.ics", local, "Update")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "Bad credentials") {
		t.Errorf("err = %v", err)
	}
}

func TestUploadMissingLocalFile(t *testing.T) {
	p := New("secret", "owner/calendars", WithBaseURL("http://127.0.0.1:1"))
	if err := p.Upload(context.Background(), "EEB.ics", filepath.Join(t.TempDir(), "none.ics"), "Update"); err == nil {
		t.Fatal("expected an error for a missing local file")
	}
}
