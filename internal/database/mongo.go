package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pinet/pinet/internal/models"
)

const (
	pinsCollection  = "pins"
	usersCollection = "users"
)

type pinDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Title     string             `bson:"title"`
	Desc      string             `bson:"desc"`
	Rating    int                `bson:"rating"`
	Lat       float64            `bson:"lat"`
	Long      float64            `bson:"long"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d pinDocument) model() models.Pin {
	return models.Pin{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Title:     d.Title,
		Desc:      d.Desc,
		Rating:    d.Rating,
		Lat:       d.Lat,
		Long:      d.Long,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// MongoStore keeps pins and users in two collections. Documents carry
// _id, createdAt and updatedAt.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) ListPins(ctx context.Context) ([]models.Pin, error) {
	// ObjectIDs grow with insertion time, so _id order is insertion order.
	cursor, err := s.db.Collection(pinsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []pinDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	pins := make([]models.Pin, 0, len(docs))
	for _, d := range docs {
		pins = append(pins, d.model())
	}
	return pins, nil
}

func (s *MongoStore) CreatePin(ctx context.Context, p *models.Pin) error {
	now := time.Now().UTC()
	doc := pinDocument{
		Username:  p.Username,
		Title:     p.Title,
		Desc:      p.Desc,
		Rating:    p.Rating,
		Lat:       p.Lat,
		Long:      p.Long,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := s.db.Collection(pinsCollection).InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	doc.ID = id
	*p = doc.model()
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	count, err := s.db.Collection(usersCollection).CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"username": u.Username}, bson.M{"email": u.Email}},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}

	now := time.Now().UTC()
	doc := userDocument{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := s.db.Collection(usersCollection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	u.ID = id.Hex()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var doc userDocument
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.Client().Ping(checkCtx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
