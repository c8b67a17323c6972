package mongodb

import (
	"context"
	"errors"
	"time"

	"Imperial/internal/rondel/domain"
	"Imperial/internal/rondel/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "rondel_game"

var errNilCollection = errors.New("mongodb rondel collection is nil")

type GameStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewGameStore(db *mongo.Database) *GameStore {
	return &GameStore{
		coll: db.Collection(defaultCollectionName),
		now:  time.Now,
	}
}

func (r *GameStore) Load(ctx context.Context, id domain.GameID) (*domain.GameState, error) {
	if r == nil || r.coll == nil {
		return nil, errNilCollection
	}

	var doc model.GameDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := model.DocToState(doc)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *GameStore) Save(ctx context.Context, s domain.GameState) error {
	if r == nil || r.coll == nil {
		return errNilCollection
	}

	doc := model.StateToDoc(s, r.now())
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.GameID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
