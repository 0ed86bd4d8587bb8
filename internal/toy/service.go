package toy

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ToyService interface {
	Images(ctx context.Context) ([]Document, error)
	ByCategory(ctx context.Context, slug string) ([]Document, error)
	Categories(ctx context.Context) ([]Document, error)
	Search(ctx context.Context, name string) ([]Document, error)
	List(ctx context.Context) ([]Document, error)
	Get(ctx context.Context, id string) (Document, error)
	Create(ctx context.Context, doc Document) (*InsertResult, error)

	Owned(ctx context.Context, owner Owner) ([]Document, error)
	OwnedSorted(ctx context.Context, owner Owner, sort string) ([]Document, error)
	GetOwned(ctx context.Context, owner Owner, id string) (Document, error)
	UpdateOwned(ctx context.Context, owner Owner, id string, fields UpdateFields) (*UpdateResult, error)
	DeleteOwned(ctx context.Context, owner Owner, id string) (*DeleteResult, error)
}

type toyService struct {
	store              Store
	logger             *zap.Logger
	enforceRecordOwner bool
}

// NewToyService wires the store. With enforceRecordOwner the /my-toys/{id}
// operations also require the record's sellerEmail to equal the owner;
// without it they act on the id alone.
func NewToyService(store Store, logger *zap.Logger, enforceRecordOwner bool) ToyService {
	return &toyService{
		store:              store,
		logger:             logger,
		enforceRecordOwner: enforceRecordOwner,
	}
}

// CategoryFromSlug turns a URL slug such as "action-figure" into the stored
// category name "action figure".
func CategoryFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %w", ErrInvalidID, id, err)
	}
	return oid, nil
}

func (s *toyService) Images(ctx context.Context) ([]Document, error) {
	return s.store.Images(ctx, ImagesLimit)
}

func (s *toyService) ByCategory(ctx context.Context, slug string) ([]Document, error) {
	return s.store.FindByCategory(ctx, CategoryFromSlug(slug), CategoryLimit)
}

func (s *toyService) Categories(ctx context.Context) ([]Document, error) {
	return s.store.Categories(ctx)
}

// Search treats name as a case-insensitive pattern. An empty name matches
// every toy that has a name.
func (s *toyService) Search(ctx context.Context, name string) ([]Document, error) {
	return s.store.SearchByName(ctx, name, SearchLimit)
}

func (s *toyService) List(ctx context.Context) ([]Document, error) {
	return s.store.List(ctx, ListLimit)
}

func (s *toyService) Get(ctx context.Context, id string) (Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid, nil)
}

func (s *toyService) Create(ctx context.Context, doc Document) (*InsertResult, error) {
	return s.store.Insert(ctx, doc)
}

func (s *toyService) Owned(ctx context.Context, owner Owner) ([]Document, error) {
	return s.store.FindByOwner(ctx, owner, SortNone)
}

func (s *toyService) OwnedSorted(ctx context.Context, owner Owner, sort string) ([]Document, error) {
	return s.store.FindByOwner(ctx, owner, ParseSort(sort))
}

func (s *toyService) GetOwned(ctx context.Context, owner Owner, id string) (Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid, s.scope(owner))
}

func (s *toyService) UpdateOwned(ctx context.Context, owner Owner, id string, fields UpdateFields) (*UpdateResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.store.Update(ctx, oid, s.scope(owner), fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("toy updated",
		zap.String("id", id),
		zap.String("owner", owner.Email),
		zap.Int64("matched", res.MatchedCount),
		zap.Int64("modified", res.ModifiedCount),
	)
	return res, nil
}

func (s *toyService) DeleteOwned(ctx context.Context, owner Owner, id string) (*DeleteResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.store.Delete(ctx, oid, s.scope(owner))
	if err != nil {
		return nil, err
	}
	s.logger.Info("toy deleted",
		zap.String("id", id),
		zap.String("owner", owner.Email),
		zap.Int64("deleted", res.DeletedCount),
	)
	return res, nil
}

func (s *toyService) scope(owner Owner) *Owner {
	if !s.enforceRecordOwner {
		return nil
	}
	return &owner
}
