package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reliefmap/relief-camps/internal/model"
)

// CampsCollection is the collection camp documents are written to.
const CampsCollection = "camps"

// CampRepo encapsulates all store access related to camps.  It depends on a
// mongo.Database handle which should be configured elsewhere.
type CampRepo struct {
	coll *mongo.Collection
}

// NewCampRepo constructs a CampRepo writing to the camps collection of db.
func NewCampRepo(db *mongo.Database) *CampRepo {
	return &CampRepo{coll: db.Collection(CampsCollection)}
}

// NewCampRepoForCollection constructs a CampRepo over an explicit collection.
func NewCampRepoForCollection(coll *mongo.Collection) *CampRepo {
	return &CampRepo{coll: coll}
}

// Insert writes camp as a new document and returns the generated identifier
// as a hex string.  On success camp.ID is populated as well.  Inserting the
// same camp twice creates two documents.
func (r *CampRepo) Insert(ctx context.Context, camp *model.Camp) (string, error) {
	res, err := r.coll.InsertOne(ctx, camp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	var id string
	switch v := res.InsertedID.(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	default:
		return "", fmt.Errorf("%w: %T", ErrUnexpectedID, res.InsertedID)
	}
	camp.ID = id
	return id, nil
}
