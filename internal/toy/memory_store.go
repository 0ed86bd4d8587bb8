package toy

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps toys in process, in insertion order. It answers every
// Store query the way the Mongo collection does for the documents this
// service writes, and backs local runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []Document
}

func NewMemoryStore(seed ...Document) *MemoryStore {
	s := &MemoryStore{}
	for _, d := range seed {
		_, _ = s.insert(d)
	}
	return s
}

func (s *MemoryStore) Images(_ context.Context, limit int64) ([]Document, error) {
	return s.collect(limit, nil, imageFields), nil
}

func (s *MemoryStore) FindByCategory(_ context.Context, category string, limit int64) ([]Document, error) {
	match := func(d Document) bool {
		c, ok := d[fieldCategory].(string)
		return ok && c == category
	}
	return s.collect(limit, match, categoryFields), nil
}

func (s *MemoryStore) Categories(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0)
	seen := make([]any, 0)
outer:
	for _, d := range s.docs {
		c := d[fieldCategory]
		for _, v := range seen {
			if reflect.DeepEqual(v, c) {
				continue outer
			}
		}
		seen = append(seen, c)
		out = append(out, Document{fieldCategory: c})
	}
	return out, nil
}

func (s *MemoryStore) SearchByName(_ context.Context, pattern string, limit int64) ([]Document, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("bad search pattern: %w", err)
	}
	match := func(d Document) bool {
		name, ok := d[fieldName].(string)
		return ok && re.MatchString(name)
	}
	return s.collect(limit, match, nil), nil
}

func (s *MemoryStore) List(_ context.Context, limit int64) ([]Document, error) {
	return s.collect(limit, nil, nil), nil
}

func (s *MemoryStore) FindByOwner(_ context.Context, owner Owner, order SortOrder) ([]Document, error) {
	docs := s.collect(0, ownerMatcher(owner), nil)
	if order != SortNone {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i][fieldPrice], docs[j][fieldPrice])
			if order == SortAscending {
				return c < 0
			}
			return c > 0
		})
	}
	return docs, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID, scope *Owner) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id, scope)
	if i < 0 {
		return nil, ErrNotFound
	}
	return clone(s.docs[i]), nil
}

func (s *MemoryStore) Insert(_ context.Context, doc Document) (*InsertResult, error) {
	id, err := s.insert(doc)
	if err != nil {
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *MemoryStore) insert(doc Document) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := clone(doc)
	if _, ok := d[fieldID]; !ok {
		d[fieldID] = primitive.NewObjectID()
	}
	for _, existing := range s.docs {
		if reflect.DeepEqual(existing[fieldID], d[fieldID]) {
			return nil, ErrDuplicateID
		}
	}
	s.docs = append(s.docs, d)
	return d[fieldID], nil
}

func (s *MemoryStore) Update(_ context.Context, id primitive.ObjectID, scope *Owner, fields UpdateFields) (*UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &UpdateResult{Acknowledged: true}
	i := s.indexOf(id, scope)
	if i < 0 {
		return res, nil
	}
	res.MatchedCount = 1

	d := s.docs[i]
	changed := false
	for k, v := range map[string]any{
		fieldPrice:    fields.Price,
		fieldQuantity: fields.Quantity,
		fieldDetails:  fields.DetailsDescription,
	} {
		old, ok := d[k]
		if !ok || !reflect.DeepEqual(old, v) {
			d[k] = v
			changed = true
		}
	}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *MemoryStore) Delete(_ context.Context, id primitive.ObjectID, scope *Owner) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &DeleteResult{Acknowledged: true}
	i := s.indexOf(id, scope)
	if i < 0 {
		return res, nil
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	res.DeletedCount = 1
	return res, nil
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

// Len reports how many toys are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// collect returns up to limit matching documents (0 means no limit),
// projected to fields when fields is non-nil.
func (s *MemoryStore) collect(limit int64, match func(Document) bool, fields []string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0)
	for _, d := range s.docs {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if match != nil && !match(d) {
			continue
		}
		if fields != nil {
			out = append(out, project(d, fields))
		} else {
			out = append(out, clone(d))
		}
	}
	return out
}

// indexOf must be called with the lock held.
func (s *MemoryStore) indexOf(id primitive.ObjectID, scope *Owner) int {
	for i, d := range s.docs {
		oid, ok := d[fieldID].(primitive.ObjectID)
		if !ok || oid != id {
			continue
		}
		if scope != nil && !ownerMatcher(*scope)(d) {
			continue
		}
		return i
	}
	return -1
}

func ownerMatcher(owner Owner) func(Document) bool {
	return func(d Document) bool {
		v, ok := d[fieldSellerEmail]
		if !owner.Present {
			return !ok || v == nil
		}
		s, isString := v.(string)
		return isString && s == owner.Email
	}
}

func clone(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func project(d Document, fields []string) Document {
	out := make(Document, len(fields))
	for _, f := range fields {
		if v, ok := d[f]; ok {
			out[f] = v
		}
	}
	return out
}

// compareValues orders values the way a BSON sort does for the types toys
// carry: null and missing first, then numbers, then strings, then the rest.
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	case 2:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
	}
	return 0
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

var _ Store = (*MemoryStore)(nil)
