package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/billow-homes/homes-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const HomesCollection = "homes"

// MatchPolicy decides what update/delete-by-match do when several homes
// share the matched fields.
type MatchPolicy string

const (
	// MatchFirst acts on the oldest matching home.
	MatchFirst MatchPolicy = "first"
	// MatchUnique refuses to act when more than one home matches.
	MatchUnique MatchPolicy = "unique"
)

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(s) {
	case "", MatchFirst:
		return MatchFirst, nil
	case MatchUnique:
		return MatchUnique, nil
	}
	return "", fmt.Errorf("unknown match policy %q", s)
}

// Match selects homes for update/delete-by-match.
type Match struct {
	Street string
}

func (m Match) filter() bson.M {
	return bson.M{"street": m.Street}
}

var oldestFirst = bson.D{{Key: "_id", Value: 1}}

type HomeStore struct {
	coll   *mongo.Collection
	policy MatchPolicy
}

func NewHomeStore(db *mongo.Database, policy MatchPolicy) *HomeStore {
	return &HomeStore{coll: db.Collection(HomesCollection), policy: policy}
}

// NewHomeStoreWithCollection is used when the collection handle is owned
// elsewhere, e.g. by a test deployment.
func NewHomeStoreWithCollection(coll *mongo.Collection, policy MatchPolicy) *HomeStore {
	return &HomeStore{coll: coll, policy: policy}
}

// EnsureIndexes creates the text index used by Search and the street index
// used by update/delete-by-match.
func (s *HomeStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "street", Value: "text"},
				{Key: "city", Value: "text"},
				{Key: "state", Value: "text"},
				{Key: "zip", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetName("homes_text"),
		},
		{
			Keys:    bson.D{{Key: "street", Value: 1}},
			Options: options.Index().SetName("homes_street"),
		},
	}
	names, err := s.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return wrapErr("create indexes", err)
	}
	log.Printf("Ensured indexes on %s: %v", HomesCollection, names)
	return nil
}

func (s *HomeStore) FindByID(ctx context.Context, id string) (*models.Home, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("home %s: %w", id, models.ErrNotFound)
	}

	var home models.Home
	err = s.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&home)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("home %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("find home", err)
	}
	return &home, nil
}

func (s *HomeStore) ListPage(ctx context.Context, offset, limit int64) ([]models.Home, int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, wrapErr("count homes", err)
	}

	homes := []models.Home{}
	if offset < 0 || offset >= total || limit <= 0 {
		return homes, total, nil
	}

	findOptions := options.Find().SetSort(oldestFirst).SetSkip(offset).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, wrapErr("list homes", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &homes); err != nil {
		return nil, 0, wrapErr("decode homes", err)
	}
	return homes, total, nil
}

// Search runs a text query and returns hits by descending relevance. No
// hits is an empty slice, not an error.
func (s *HomeStore) Search(ctx context.Context, term string) ([]models.Home, error) {
	filter := bson.M{"$text": bson.M{"$search": term}}
	score := bson.M{"$meta": "textScore"}
	findOptions := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}})

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, wrapErr("search homes", err)
	}
	defer cursor.Close(ctx)

	homes := []models.Home{}
	if err := cursor.All(ctx, &homes); err != nil {
		return nil, wrapErr("decode search results", err)
	}
	return homes, nil
}

func (s *HomeStore) Create(ctx context.Context, home models.Home) (*models.Home, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	home.ID = primitive.NewObjectID()
	home.CreatedAt = now
	home.UpdatedAt = now
	home.Score = 0

	if _, err := s.coll.InsertOne(ctx, home); err != nil {
		return nil, wrapErr("insert home", err)
	}
	return &home, nil
}

// UpdateByMatch merges patch into the home selected by match in a single
// findAndModify. A nil home with a nil error means nothing matched.
func (s *HomeStore) UpdateByMatch(ctx context.Context, match Match, patch models.HomePatch) (*models.Home, error) {
	if err := s.checkUnique(ctx, match); err != nil {
		return nil, err
	}

	set := patch.Fields()
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().
		SetSort(oldestFirst).
		SetReturnDocument(options.After)

	var home models.Home
	err := s.coll.FindOneAndUpdate(ctx, match.filter(), bson.M{"$set": set}, opts).Decode(&home)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("update home", err)
	}
	return &home, nil
}

// DeleteByMatch removes the home selected by match and returns it. A nil
// home with a nil error means nothing matched.
func (s *HomeStore) DeleteByMatch(ctx context.Context, match Match) (*models.Home, error) {
	if err := s.checkUnique(ctx, match); err != nil {
		return nil, err
	}
	return s.findOneAndDelete(ctx, match.filter())
}

func (s *HomeStore) DeleteByID(ctx context.Context, id string) (*models.Home, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOneAndDelete(ctx, bson.M{"_id": objID})
}

func (s *HomeStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *HomeStore) findOneAndDelete(ctx context.Context, filter bson.M) (*models.Home, error) {
	opts := options.FindOneAndDelete().SetSort(oldestFirst)

	var home models.Home
	err := s.coll.FindOneAndDelete(ctx, filter, opts).Decode(&home)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("delete home", err)
	}
	return &home, nil
}

// checkUnique enforces MatchUnique. The count and the mutation are separate
// commands, so a concurrent insert can still slip in between them.
func (s *HomeStore) checkUnique(ctx context.Context, match Match) error {
	if s.policy != MatchUnique {
		return nil
	}
	n, err := s.coll.CountDocuments(ctx, match.filter(), options.Count().SetLimit(2))
	if err != nil {
		return wrapErr("count matches", err)
	}
	if n > 1 {
		return fmt.Errorf("street %q: %w", match.Street, models.ErrAmbiguousMatch)
	}
	return nil
}

func wrapErr(op string, err error) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %v", op, models.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
