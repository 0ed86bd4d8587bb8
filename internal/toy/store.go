package toy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store runs the single document-store operation behind each route. A nil
// scope means the id alone selects the record.
type Store interface {
	Images(ctx context.Context, limit int64) ([]Document, error)
	FindByCategory(ctx context.Context, category string, limit int64) ([]Document, error)
	Categories(ctx context.Context) ([]Document, error)
	SearchByName(ctx context.Context, pattern string, limit int64) ([]Document, error)
	List(ctx context.Context, limit int64) ([]Document, error)
	FindByOwner(ctx context.Context, owner Owner, order SortOrder) ([]Document, error)
	FindByID(ctx context.Context, id primitive.ObjectID, scope *Owner) (Document, error)
	Insert(ctx context.Context, doc Document) (*InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, scope *Owner, fields UpdateFields) (*UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID, scope *Owner) (*DeleteResult, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	imageFields    = []string{fieldImgURL}
	categoryFields = []string{fieldID, fieldImgURL, fieldCategory, fieldName, fieldRating, fieldPrice}
)
