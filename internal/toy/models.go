package toy

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Document is a toy record as stored. Apart from _id, sellerEmail, price,
// category, name and imgUrl its fields are opaque to the service.
type Document = bson.M

const (
	ImagesLimit   int64 = 8
	CategoryLimit int64 = 8
	SearchLimit   int64 = 20
	ListLimit     int64 = 20
)

const (
	fieldID          = "_id"
	fieldSellerEmail = "sellerEmail"
	fieldPrice       = "price"
	fieldCategory    = "category"
	fieldName        = "name"
	fieldImgURL      = "imgUrl"
	fieldRating      = "rating"
	fieldQuantity    = "quantity"
	fieldDetails     = "detailsDescription"
)

// Owner scopes a query to one seller. A zero Owner (Present false) matches
// records whose sellerEmail is missing or null.
type Owner struct {
	Email   string
	Present bool
}

type SortOrder int

const (
	SortNone       SortOrder = 0
	SortAscending  SortOrder = 1
	SortDescending SortOrder = -1
)

// ParseSort maps the sort query value to a price order: "low" is ascending,
// anything else, including an empty value, is descending.
func ParseSort(s string) SortOrder {
	if s == "low" {
		return SortAscending
	}
	return SortDescending
}

// UpdateFields is the set of fields a seller may change. A nil value is
// written as null.
type UpdateFields struct {
	Price              any `bson:"price"`
	Quantity           any `bson:"quantity"`
	DetailsDescription any `bson:"detailsDescription"`
}

func updateFieldsFrom(doc Document) UpdateFields {
	return UpdateFields{
		Price:              doc[fieldPrice],
		Quantity:           doc[fieldQuantity],
		DetailsDescription: doc[fieldDetails],
	}
}

type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
