package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mushafctl/internal/config"
)

func testClient(serverURL string) (*Client, *bytes.Buffer) {
	var out bytes.Buffer
	c := New(serverURL)
	c.Stdout = &out
	return c, &out
}

func TestLogin_Success(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	defer server.Close()

	c, _ := testClient(server.URL)
	token, err := c.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}
	if gotBody["username"] != "admin" || gotBody["password"] != "secret" {
		t.Errorf("credentials sent = %v", gotBody)
	}
}

func TestLogin_MissingTokenField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"detail": "ok but no token"})
	}))
	defer server.Close()

	c, _ := testClient(server.URL)
	token, err := c.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestLogin_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	c, _ := testClient(server.URL)
	_, err := c.Login(context.Background(), "admin", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.Status)
	}
}

func TestCreateUser(t *testing.T) {
	var payload map[string]string
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/" {
			t.Errorf("path = %s, want /users/", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"uuid": "acc-uuid"})
	}))
	defer server.Close()

	c, _ := testClient(server.URL)
	got, err := c.CreateUser(context.Background(), "tok-1", config.DefaultProfile())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got != "acc-uuid" {
		t.Errorf("uuid = %q, want acc-uuid", got)
	}
	if auth != "Token tok-1" {
		t.Errorf("Authorization = %q, want Token tok-1", auth)
	}
	if payload["username"] != "uthmantaha" {
		t.Errorf("username = %q", payload["username"])
	}
	if payload["password"] == "" || payload["password"] != payload["password2"] {
		t.Errorf("password confirmation mismatch: %q vs %q", payload["password"], payload["password2"])
	}
}

func TestCreateUser_MissingUUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	c, _ := testClient(server.URL)
	if _, err := c.CreateUser(context.Background(), "tok-1", config.DefaultProfile()); err == nil {
		t.Error("expected error when 201 response has no uuid")
	}
}

func TestFindMushaf(t *testing.T) {
	mushafs := []Mushaf{
		{UUID: "m1", ShortName: "warsh"},
		{UUID: "m2", ShortName: "hafs"},
	}

	got, err := FindMushaf(mushafs, "hafs")
	if err != nil {
		t.Fatalf("FindMushaf: %v", err)
	}
	if got.UUID != "m2" {
		t.Errorf("uuid = %q, want m2", got.UUID)
	}

	if _, err := FindMushaf(mushafs[:1], "hafs"); err == nil {
		t.Error("expected error when no mushaf matches")
	}
}

func TestListMushafs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mushafs/" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Mushaf{{UUID: "m1", ShortName: "hafs", Name: "Hafs"}})
	}))
	defer server.Close()

	c, _ := testClient(server.URL)
	mushafs, err := c.ListMushafs(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("ListMushafs: %v", err)
	}
	if len(mushafs) != 1 || mushafs[0].ShortName != "hafs" {
		t.Errorf("mushafs = %+v", mushafs)
	}
}

func TestCreateTakhtit(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response map[string]string
		wantUUID string
		wantErr  bool
	}{
		{name: "created", status: http.StatusCreated, response: map[string]string{"uuid": "tk-1"}, wantUUID: "tk-1"},
		{name: "created without uuid", status: http.StatusCreated, response: map[string]string{}, wantUUID: ""},
		{name: "rejected", status: http.StatusBadRequest, response: map[string]string{"detail": "nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/takhtits/" {
					t.Errorf("path = %s, want /takhtits/", r.URL.Path)
				}
				json.NewDecoder(r.Body).Decode(&payload)
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			c, _ := testClient(server.URL)
			got, err := c.CreateTakhtit(context.Background(), "tok-1", "m-uuid", "a-uuid")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateTakhtit error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.wantUUID {
				t.Errorf("uuid = %q, want %q", got, tt.wantUUID)
			}
			if payload["mushaf_uuid"] != "m-uuid" || payload["account_uuid"] != "a-uuid" {
				t.Errorf("payload = %v", payload)
			}
		})
	}
}

func readUpload(t *testing.T, r *http.Request) (filename, contents string) {
	t.Helper()
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	return header.Filename, string(data)
}
