package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/codebros/codebros-backend/src/models"
)

const (
	usersCollection       = "users"
	connectionsCollection = "connections"
	messagesCollection    = "messages"
	countersCollection    = "counters"
)

// MongoStore is the document store. Integer ids come from a counters collection so the API
// shape matches the relational store.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps a connected client and database.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{client: client, db: db}
}

var _ Store = (*MongoStore)(nil)

func (s *MongoStore) users() *mongo.Collection       { return s.db.Collection(usersCollection) }
func (s *MongoStore) connections() *mongo.Collection { return s.db.Collection(connectionsCollection) }
func (s *MongoStore) messages() *mongo.Collection    { return s.db.Collection(messagesCollection) }

// nextID atomically increments and returns the counter for name.
func (s *MongoStore) nextID(ctx context.Context, name string) (uint, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return uint(counter.Seq), nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = make([]T, 0)
	}
	return docs, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"_id": id})
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"username": username})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"email": email})
}

func (s *MongoStore) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return findAll[models.User](ctx, s.users(), bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.users(), bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	id, err := s.nextID(ctx, usersCollection)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	user.ID = id
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err = s.users().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUser
	}
	return err
}

func (s *MongoStore) UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	update.Apply(user, time.Now().UTC())
	_, err = s.users().ReplaceOne(ctx, bson.M{"_id": id}, user)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MongoStore) SetUserOnlineStatus(ctx context.Context, id uint, online bool, at time.Time) (bool, error) {
	result, err := s.users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isOnline":  online,
		"lastSeen":  at,
		"updatedAt": at,
	}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoStore) GetConnection(ctx context.Context, a, b uint) (*models.Connection, error) {
	low, high := models.PairKey(a, b)
	return findOne[models.Connection](ctx, s.connections(), bson.M{"pairLow": low, "pairHigh": high})
}

func (s *MongoStore) GetConnectionByID(ctx context.Context, id uint) (*models.Connection, error) {
	return findOne[models.Connection](ctx, s.connections(), bson.M{"_id": id})
}

func (s *MongoStore) ListConnectionsForUser(ctx context.Context, userID uint) ([]models.Connection, error) {
	filter := bson.M{"$or": []bson.M{
		{"requesterId": userID},
		{"receiverId": userID},
	}}
	return findAll[models.Connection](ctx, s.connections(), filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *MongoStore) ListPendingRequests(ctx context.Context, receiverID uint) ([]models.Connection, error) {
	filter := bson.M{"receiverId": receiverID, "status": models.ConnectionStatusPending}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[models.Connection](ctx, s.connections(), filter, opts)
}

func (s *MongoStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	conn.SetPair()
	id, err := s.nextID(ctx, connectionsCollection)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	conn.ID = id
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	conn.UpdatedAt = now

	_, err = s.connections().InsertOne(ctx, conn)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateConnection
	}
	return err
}

func (s *MongoStore) UpdateConnectionStatus(ctx context.Context, id uint, status models.ConnectionStatus) (*models.Connection, error) {
	var conn models.Connection
	err := s.connections().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ConnectionStatusPending},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&conn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, err := s.GetConnectionByID(ctx, id)
		if err != nil || existing == nil {
			return nil, err
		}
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (s *MongoStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	id, err := s.nextID(ctx, messagesCollection)
	if err != nil {
		return err
	}
	msg.ID = id
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err = s.messages().InsertOne(ctx, msg)
	return err
}

var chronological = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func (s *MongoStore) ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"senderId": userID},
		{"receiverId": userID},
	}}
	return findAll[models.Message](ctx, s.messages(), filter, options.Find().SetSort(chronological))
}

func (s *MongoStore) ListMessagesBetween(ctx context.Context, a, b uint) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"senderId": a, "receiverId": b},
		{"senderId": b, "receiverId": a},
	}}
	return findAll[models.Message](ctx, s.messages(), filter, options.Find().SetSort(chronological))
}

func (s *MongoStore) CountUnreadMessages(ctx context.Context, receiverID uint) (int64, error) {
	return s.messages().CountDocuments(ctx, bson.M{"receiverId": receiverID, "isRead": false})
}

func (s *MongoStore) MarkRead(ctx context.Context, senderID, receiverID uint) (int64, error) {
	result, err := s.messages().UpdateMany(ctx,
		bson.M{"senderId": senderID, "receiverId": receiverID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Migrate creates the indexes, including the unique unordered-pair index on connections.
func (s *MongoStore) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		connectionsCollection: {
			{
				Keys:    bson.D{{Key: "pairLow", Value: 1}, {Key: "pairHigh", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("idx_connection_pair"),
			},
			{Keys: bson.D{{Key: "requesterId", Value: 1}}},
			{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "status", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}}},
			{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "isRead", Value: 1}}},
		},
	}

	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
