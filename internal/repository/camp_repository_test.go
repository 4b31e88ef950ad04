package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/reliefmap/relief-camps/internal/model"
)

func sampleCamp() *model.Camp {
	return &model.Camp{
		Name:         "Camp A",
		Type:         "shelter",
		MaxCapacity:  100,
		ContactPhone: "555",
		Address:      "1 Main St",
		District:     "D1",
		City:         "C1",
		Amenities:    []any{"water"},
		Location:     model.NewPoint(77.5, 12.5),
		CreatedBy:    "u1",
	}
}

func TestCampRepo_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns generated object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewCampRepoForCollection(mt.Coll)
		camp := sampleCamp()

		id, err := repo.Insert(context.Background(), camp)

		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(id))
		assert.Equal(mt, id, camp.ID)
	})

	mt.Run("writes the camp document shape", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewCampRepoForCollection(mt.Coll)
		camp := sampleCamp()
		camp.CreatedBy = map[string]any{"name": "Ann Lee", "type": "volunteer"}

		id, err := repo.Insert(context.Background(), camp)
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		assert.Equal(mt, CampsCollection, started.Command.Lookup("insert").StringValue())
		docs, err := started.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		doc := docs[0].Document()

		elems, err := doc.Elements()
		require.NoError(mt, err)
		keys := make([]string, len(elems))
		for i, el := range elems {
			keys[i] = el.Key()
		}
		assert.Equal(mt, []string{
			"_id", "name", "type", "maxCapacity", "contactPhone", "address",
			"district", "city", "amenities", "location", "createdBy",
		}, keys)

		assert.Equal(mt, id, doc.Lookup("_id").ObjectID().Hex())
		capacity, ok := doc.Lookup("maxCapacity").Int32OK()
		require.True(mt, ok, "maxCapacity must be stored as an integer")
		assert.Equal(mt, int32(100), capacity)
		assert.Equal(mt, "1 Main St", doc.Lookup("address").StringValue())
		assert.Equal(mt, "Point", doc.Lookup("location", "type").StringValue())

		coords, err := doc.Lookup("location", "coordinates").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, coords, 2)
		assert.Equal(mt, 77.5, coords[0].Double())
		assert.Equal(mt, 12.5, coords[1].Double())

		assert.Equal(mt, "Ann Lee", doc.Lookup("createdBy", "name").StringValue())
		var amenities []string
		require.NoError(mt, doc.Lookup("amenities").Unmarshal(&amenities))
		assert.Equal(mt, []string{"water"}, amenities)
	})

	mt.Run("two inserts yield distinct ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		repo := NewCampRepoForCollection(mt.Coll)

		first, err := repo.Insert(context.Background(), sampleCamp())
		require.NoError(mt, err)
		second, err := repo.Insert(context.Background(), sampleCamp())
		require.NoError(mt, err)

		assert.NotEqual(mt, first, second)
	})

	mt.Run("wraps write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewCampRepoForCollection(mt.Coll)
		camp := sampleCamp()

		id, err := repo.Insert(context.Background(), camp)

		require.Error(mt, err)
		assert.True(mt, errors.Is(err, ErrInsertFailed))
		assert.Empty(mt, id)
		assert.Empty(mt, camp.ID)
	})
}
