package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMergeSendsFields(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotDevice string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDevice = r.Header.Get("X-Device-ID")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "tok-1", "dev-1")
	err := client.Merge(context.Background(), CollectionEvents, "ev-1", map[string]interface{}{"name": "Party"})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if gotMethod != "PATCH" || gotPath != "/v1/collections/events/docs/ev-1" {
		t.Fatalf("got %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer tok-1" || gotDevice != "dev-1" {
		t.Fatalf("headers missing: auth=%q device=%q", gotAuth, gotDevice)
	}
	fields, ok := gotBody["fields"].(map[string]interface{})
	if !ok || fields["name"] != "Party" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestDeleteToleratesMissingDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "tok", "dev")
	if err := client.Delete(context.Background(), CollectionGuests, "gs-gone"); err != nil {
		t.Fatalf("missing document should not fail a delete: %v", err)
	}
}

func TestUnauthorizedSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"auth/expired","message":"token expired"}`))
	}))
	defer server.Close()

	client := New(server.URL, "stale", "dev")
	err := client.Merge(context.Background(), CollectionTasks, "tk-1", map[string]interface{}{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestQueryByField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/collections/guests/query" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("field") != "event_id" || q.Get("value") != "ev-1" {
			t.Fatalf("unexpected query: %v", q)
		}
		w.Write([]byte(`[{"id":"gs-1","fields":{"name":"Ana","provider_uid":"prov-1"}}]`))
	}))
	defer server.Close()

	client := New(server.URL, "tok", "dev")
	docs, err := client.QueryByField(context.Background(), CollectionGuests, "event_id", "ev-1")
	if err != nil {
		t.Fatalf("QueryByField failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "gs-1" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
	if docs[0].Fields["provider_uid"] != "prov-1" {
		t.Fatalf("fields not decoded: %+v", docs[0].Fields)
	}
}
