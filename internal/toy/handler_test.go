package toy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mehmetcc/edutoy/internal/auth"
	"github.com/mehmetcc/edutoy/internal/config"
	"github.com/mehmetcc/edutoy/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
)

type testServer struct {
	router http.Handler
	store  *MemoryStore
	tokens token.TokenService
}

func newTestServer(t *testing.T, enforceRecordOwner bool, seed ...Document) *testServer {
	t.Helper()
	logger := zap.NewNop()
	tokens := token.NewTokenService(logger, &config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour})
	store := NewMemoryStore(seed...)

	h := NewToyHandler(NewToyService(store, logger, enforceRecordOwner), logger, 5*time.Second,
		auth.Guard(tokens, logger),
		auth.OwnerCheck("email", "email", logger),
	)
	r := chi.NewRouter()
	h.Register(r)
	return &testServer{router: r, store: store, tokens: tokens}
}

func (s *testServer) tokenFor(t *testing.T, email string) string {
	t.Helper()
	res, err := s.tokens.Issue(context.Background(), token.Claims{"email": email})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return res.AccessToken
}

func (s *testServer) do(method, target, bearer, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode object %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestToyHandler_PublicReads(t *testing.T) {
	seed := seedMany(25)
	seed = append(seed,
		Document{"name": "RoboCar", "category": "action figure", "imgUrl": "robo.png", "price": int32(30), "sellerEmail": alice},
		Document{"name": "Teddy", "category": "plush", "imgUrl": "teddy.png", "price": int32(12), "sellerEmail": bob},
	)
	s := newTestServer(t, false, seed...)

	tests := []struct {
		name   string
		target string
		want   int
		check  func(t *testing.T, docs []map[string]any)
	}{
		{name: "images capped", target: "/images", want: 8, check: func(t *testing.T, docs []map[string]any) {
			if len(docs[0]) != 1 || docs[0]["imgUrl"] == nil {
				t.Errorf("image doc = %v, want only imgUrl", docs[0])
			}
		}},
		{name: "list capped", target: "/toys", want: 20},
		{name: "category slug", target: "/categories/action-figure", want: 1, check: func(t *testing.T, docs []map[string]any) {
			if docs[0]["name"] != "RoboCar" {
				t.Errorf("doc = %v, want RoboCar", docs[0])
			}
			if _, ok := docs[0]["sellerEmail"]; ok {
				t.Error("category projection leaked sellerEmail")
			}
		}},
		{name: "category capped", target: "/categories/puzzle", want: 8},
		{name: "unknown category", target: "/categories/kites", want: 0},
		{name: "search case insensitive", target: "/search?name=robocar", want: 1},
		{name: "search capped", target: "/search?name=toy", want: 20},
		{name: "distinct categories", target: "/categories", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, tt.target, "", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			docs := decodeList(t, rec)
			if len(docs) != tt.want {
				t.Fatalf("len = %d, want %d", len(docs), tt.want)
			}
			if tt.check != nil {
				tt.check(t, docs)
			}
		})
	}
}

func TestToyHandler_EmptyListIsArray(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(http.MethodGet, "/toys", "", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestToyHandler_GetByID(t *testing.T) {
	s := newTestServer(t, false)
	ins, _ := s.store.Insert(context.Background(), Document{"name": "Kite", "price": int32(9)})
	id := ins.InsertedID.(primitive.ObjectID).Hex()

	rec := s.do(http.MethodGet, "/toys/"+id, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := decodeObject(t, rec)
	if doc["_id"] != id || doc["name"] != "Kite" {
		t.Errorf("doc = %v", doc)
	}

	rec = s.do(http.MethodGet, "/toys/"+primitive.NewObjectID().Hex(), "", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("missing toy = %d %q, want 200 null", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/toys/not-an-id", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("malformed id status = %d, want 500", rec.Code)
	}
}

func TestToyHandler_Create(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodPost, "/toys", "", `{"name":"Kite","price":10,"rating":4.5,"sellerEmail":"alice@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	res := decodeObject(t, rec)
	if res["acknowledged"] != true {
		t.Errorf("result = %v", res)
	}
	hexID, _ := res["insertedId"].(string)
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		t.Fatalf("insertedId %v: %v", res["insertedId"], err)
	}

	doc, err := s.store.FindByID(context.Background(), oid, nil)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if _, ok := doc["price"].(int32); !ok {
		t.Errorf("price stored as %T, want int32", doc["price"])
	}
	if _, ok := doc["rating"].(float64); !ok {
		t.Errorf("rating stored as %T, want float64", doc["rating"])
	}
}

func TestToyHandler_CreateRejectsBadBody(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{name: "array", body: `[1,2]`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "null", body: `null`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "malformed", body: `{"name":`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "form", body: `name=Kite`, contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/toys", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if s.store.Len() != 0 {
				t.Errorf("store has %d toys after rejected create", s.store.Len())
			}
		})
	}
}

func TestToyHandler_ProtectedRejections(t *testing.T) {
	s := newTestServer(t, false, Document{"name": "Kite", "sellerEmail": alice})
	aliceToken := s.tokenFor(t, alice)

	tests := []struct {
		name   string
		target string
		bearer string
		want   int
	}{
		{name: "no header", target: "/my-toys?email=" + alice, want: http.StatusUnauthorized},
		{name: "bad token", target: "/my-toys?email=" + alice, bearer: "garbage", want: http.StatusPaymentRequired},
		{name: "other email", target: "/my-toys?email=" + bob, bearer: aliceToken, want: http.StatusForbidden},
		{name: "no email", target: "/sort-my-toys?sort=low", bearer: aliceToken, want: http.StatusForbidden},
		{name: "own email", target: "/my-toys?email=" + alice, bearer: aliceToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, tt.target, tt.bearer, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestToyHandler_OwnedSorted(t *testing.T) {
	s := newTestServer(t, false,
		Document{"name": "a", "sellerEmail": alice, "price": int32(10)},
		Document{"name": "b", "sellerEmail": alice, "price": int32(5)},
		Document{"name": "c", "sellerEmail": alice, "price": int32(20)},
		Document{"name": "d", "sellerEmail": bob, "price": int32(1)},
	)
	tok := s.tokenFor(t, alice)

	tests := []struct {
		sort string
		want []float64
	}{
		{sort: "low", want: []float64{5, 10, 20}},
		{sort: "high", want: []float64{20, 10, 5}},
		{sort: "", want: []float64{20, 10, 5}},
	}
	for _, tt := range tests {
		t.Run("sort="+tt.sort, func(t *testing.T) {
			rec := s.do(http.MethodGet, fmt.Sprintf("/sort-my-toys?email=%s&sort=%s", alice, tt.sort), tok, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			docs := decodeList(t, rec)
			if len(docs) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(docs), len(tt.want))
			}
			for i, d := range docs {
				if d["price"] != tt.want[i] {
					t.Errorf("docs[%d].price = %v, want %v", i, d["price"], tt.want[i])
				}
			}
		})
	}

	rec := s.do(http.MethodGet, "/my-toys?email="+alice, tok, "")
	if docs := decodeList(t, rec); len(docs) != 3 {
		t.Errorf("/my-toys len = %d, want 3", len(docs))
	}
}

func TestToyHandler_MismatchDoesNotMutate(t *testing.T) {
	s := newTestServer(t, false)
	ins, _ := s.store.Insert(context.Background(), Document{"name": "Kite", "sellerEmail": alice, "price": int32(9)})
	oid := ins.InsertedID.(primitive.ObjectID)
	target := "/my-toys/" + oid.Hex() + "?email=" + alice
	bobToken := s.tokenFor(t, bob)

	rec := s.do(http.MethodDelete, target, bobToken, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("DELETE status = %d, want 403", rec.Code)
	}
	rec = s.do(http.MethodPatch, target, bobToken, `{"price":1}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("PATCH status = %d, want 403", rec.Code)
	}

	doc, err := s.store.FindByID(context.Background(), oid, nil)
	if err != nil {
		t.Fatalf("toy gone after rejected requests: %v", err)
	}
	if doc["price"] != int32(9) {
		t.Errorf("price = %v, want 9", doc["price"])
	}
}

func TestToyHandler_UpdateAndDeleteOwned(t *testing.T) {
	s := newTestServer(t, false)
	ins, _ := s.store.Insert(context.Background(), Document{
		"name": "Kite", "sellerEmail": alice, "price": int32(9), "quantity": int32(1), "detailsDescription": "red",
	})
	oid := ins.InsertedID.(primitive.ObjectID)
	target := "/my-toys/" + oid.Hex() + "?email=" + alice
	tok := s.tokenFor(t, alice)

	rec := s.do(http.MethodPatch, target, tok, `{"price":12,"quantity":3,"name":"ignored"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body %s", rec.Code, rec.Body.String())
	}
	res := decodeObject(t, rec)
	if res["matchedCount"] != float64(1) || res["modifiedCount"] != float64(1) {
		t.Errorf("update result = %v", res)
	}

	doc, _ := s.store.FindByID(context.Background(), oid, nil)
	if doc["price"] != int32(12) || doc["quantity"] != int32(3) || doc["name"] != "Kite" {
		t.Errorf("doc after PATCH = %v", doc)
	}
	if v, ok := doc["detailsDescription"]; !ok || v != nil {
		t.Errorf("detailsDescription = %v (present %v), want null", v, ok)
	}

	rec = s.do(http.MethodGet, target, tok, "")
	if got := decodeObject(t, rec); got["name"] != "Kite" {
		t.Errorf("GET owned = %v", got)
	}

	rec = s.do(http.MethodDelete, target, tok, "")
	if res := decodeObject(t, rec); res["deletedCount"] != float64(1) {
		t.Errorf("delete result = %v", res)
	}
	rec = s.do(http.MethodDelete, target, tok, "")
	if res := decodeObject(t, rec); res["deletedCount"] != float64(0) {
		t.Errorf("second delete result = %v", res)
	}
}

func TestToyHandler_EnforceRecordOwner(t *testing.T) {
	s := newTestServer(t, true)
	ins, _ := s.store.Insert(context.Background(), Document{"name": "Kite", "sellerEmail": alice})
	id := ins.InsertedID.(primitive.ObjectID).Hex()
	target := "/my-toys/" + id + "?email=" + bob
	tok := s.tokenFor(t, bob)

	rec := s.do(http.MethodGet, target, tok, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("GET = %d %q, want 200 null", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodDelete, target, tok, "")
	if res := decodeObject(t, rec); res["deletedCount"] != float64(0) {
		t.Errorf("delete result = %v", res)
	}
	if s.store.Len() != 1 {
		t.Errorf("store len = %d, want 1", s.store.Len())
	}
}
