package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testVector() []float32 {
	v := make([]float32, embeddingDim)
	v[0] = 1
	return v
}

func TestSearchSimilarDimensionGuard(t *testing.T) {
	repo := NewPrecedentRepository(NewQdrantClient("http://unused", ""), "c")

	_, err := repo.SearchSimilar(context.Background(), make([]float32, 100), "termination", "saas", 3)
	if err == nil {
		t.Fatal("expected error for wrong embedding dimension")
	}
}

func TestSearchSimilarFiltersAndMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}

		if req.Filter == nil || len(req.Filter.Must) != 2 {
			t.Fatalf("expected two filter conditions, got %+v", req.Filter)
		}
		if req.Filter.Must[0].Key != "clause_type" || req.Filter.Must[0].Match.Value != "governing_law" {
			t.Errorf("unexpected clause_type condition: %+v", req.Filter.Must[0])
		}
		if req.Filter.Must[1].Key != "contract_type" || req.Filter.Must[1].Match.Value != "saas" {
			t.Errorf("unexpected contract_type condition: %+v", req.Filter.Must[1])
		}

		w.Write([]byte(`{"result":[
			{"id":2,"score":0.88,"payload":{
				"precedent_id":"govlaw_england_wales_1",
				"clause_type":"governing_law",
				"contract_type":"saas",
				"risk_level":"low",
				"jurisdiction":"England and Wales",
				"text":"This Agreement shall be governed by the laws of England and Wales."
			}},
			{"id":5,"score":0.61,"payload":{
				"clause_type":"governing_law",
				"text":"governed by the laws of the State of New York"
			}}
		],"status":"ok"}`))
	}))
	defer srv.Close()

	repo := NewPrecedentRepository(NewQdrantClient(srv.URL, "secret"), "contract_precedents")
	matches, err := repo.SearchSimilar(context.Background(), testVector(), "governing_law", "saas", 3)
	if err != nil {
		t.Fatalf("SearchSimilar() returned error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	first := matches[0]
	if first.ID != "govlaw_england_wales_1" {
		t.Errorf("payload precedent_id should win over point id, got %q", first.ID)
	}
	if first.Score != 0.88 {
		t.Errorf("unexpected score: %f", first.Score)
	}
	if first.RiskLevel != "low" || first.Jurisdiction != "England and Wales" {
		t.Errorf("payload metadata not mapped: %+v", first)
	}

	second := matches[1]
	if second.ID != "5" {
		t.Errorf("point id fallback not applied, got %q", second.ID)
	}
	if second.RiskLevel != "" {
		t.Errorf("missing payload fields should map to empty strings, got %+v", second)
	}
}

func TestEnsureCollectionCreatesWhenMissing(t *testing.T) {
	var createdCollection, indexedFields = false, []string{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections":
			w.Write([]byte(`{"result":{"collections":[]},"status":"ok"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/contract_precedents":
			createdCollection = true
			w.Write([]byte(`{"result":true,"status":"ok"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/contract_precedents/index":
			var body struct {
				FieldName string `json:"field_name"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			indexedFields = append(indexedFields, body.FieldName)
			w.Write([]byte(`{"result":{"operation_id":0,"status":"acknowledged"},"status":"ok"}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	repo := NewPrecedentRepository(NewQdrantClient(srv.URL, "secret"), "contract_precedents")
	if err := repo.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection() returned error: %v", err)
	}

	if !createdCollection {
		t.Error("expected collection to be created")
	}
	if len(indexedFields) != 2 || indexedFields[0] != "clause_type" || indexedFields[1] != "contract_type" {
		t.Errorf("unexpected indexed fields: %v", indexedFields)
	}
}

func TestEnsureCollectionToleratesExistingIndexes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections":
			w.Write([]byte(`{"result":{"collections":[{"name":"contract_precedents"}]},"status":"ok"}`))
		case r.URL.Path == "/collections/contract_precedents/index":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":{"error":"index already exists"}}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	repo := NewPrecedentRepository(NewQdrantClient(srv.URL, "secret"), "contract_precedents")
	if err := repo.EnsureCollection(context.Background()); err != nil {
		t.Errorf("existing indexes must not fail EnsureCollection, got: %v", err)
	}
}
