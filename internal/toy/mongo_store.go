package toy

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

func NewMongoStore(client *mongo.Client, coll *mongo.Collection, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   coll,
		logger: logger,
	}
}

func handleMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.Join(err, ErrNotFound)
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(err, ErrDuplicateID)
	}
	return err
}

func projection(fields []string) bson.D {
	p := bson.D{}
	withID := false
	for _, f := range fields {
		if f == fieldID {
			withID = true
		}
		p = append(p, bson.E{Key: f, Value: 1})
	}
	if !withID {
		p = append(p, bson.E{Key: fieldID, Value: 0})
	}
	return p
}

func ownerFilter(owner Owner) bson.D {
	if !owner.Present {
		// matches both a null and a missing sellerEmail
		return bson.D{{Key: fieldSellerEmail, Value: nil}}
	}
	return bson.D{{Key: fieldSellerEmail, Value: owner.Email}}
}

func idFilter(id primitive.ObjectID, scope *Owner) bson.D {
	f := bson.D{{Key: fieldID, Value: id}}
	if scope != nil {
		f = append(f, ownerFilter(*scope)...)
	}
	return f
}

func (s *MongoStore) find(ctx context.Context, filter any, opts *options.FindOptions) ([]Document, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, handleMongoError(err)
	}
	docs := make([]Document, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, handleMongoError(err)
	}
	return docs, nil
}

func (s *MongoStore) Images(ctx context.Context, limit int64) ([]Document, error) {
	return s.find(ctx, bson.D{}, options.Find().
		SetProjection(projection(imageFields)).
		SetLimit(limit))
}

func (s *MongoStore) FindByCategory(ctx context.Context, category string, limit int64) ([]Document, error) {
	return s.find(ctx, bson.D{{Key: fieldCategory, Value: category}}, options.Find().
		SetProjection(projection(categoryFields)).
		SetLimit(limit))
}

func (s *MongoStore) Categories(ctx context.Context) ([]Document, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + fieldCategory}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: fieldCategory, Value: "$_id"}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, handleMongoError(err)
	}
	docs := make([]Document, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, handleMongoError(err)
	}
	return docs, nil
}

func (s *MongoStore) SearchByName(ctx context.Context, pattern string, limit int64) ([]Document, error) {
	filter := bson.D{{Key: fieldName, Value: primitive.Regex{Pattern: pattern, Options: "i"}}}
	return s.find(ctx, filter, options.Find().SetLimit(limit))
}

func (s *MongoStore) List(ctx context.Context, limit int64) ([]Document, error) {
	return s.find(ctx, bson.D{}, options.Find().SetLimit(limit))
}

func (s *MongoStore) FindByOwner(ctx context.Context, owner Owner, order SortOrder) ([]Document, error) {
	opts := options.Find()
	if order != SortNone {
		opts.SetSort(bson.D{{Key: fieldPrice, Value: int(order)}})
	}
	return s.find(ctx, ownerFilter(owner), opts)
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID, scope *Owner) (Document, error) {
	var doc Document
	if err := s.coll.FindOne(ctx, idFilter(id, scope)).Decode(&doc); err != nil {
		return nil, handleMongoError(err)
	}
	return doc, nil
}

func (s *MongoStore) Insert(ctx context.Context, doc Document) (*InsertResult, error) {
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, handleMongoError(err)
	}
	s.logger.Debug("toy inserted", zap.Any("id", res.InsertedID))
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (s *MongoStore) Update(ctx context.Context, id primitive.ObjectID, scope *Owner, fields UpdateFields) (*UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx, idFilter(id, scope), bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return nil, handleMongoError(err)
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID, scope *Owner) (*DeleteResult, error) {
	res, err := s.coll.DeleteOne(ctx, idFilter(id, scope))
	if err != nil {
		return nil, handleMongoError(err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
