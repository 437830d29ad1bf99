package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authbase/identity-api/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// MongoUserRepository persists identities in the users collection. It owns
// the stored representation: numeric ids allocated from a counters document,
// roles as the codec's comma-joined string, deleted_at as a unix-seconds
// soft-delete marker (0 = live), and a version field for optimistic updates.
//
// Every lookup filters soft-deleted rows, so no caller ever has to remember
// the deleted_at check.
type MongoUserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID           int64  `bson:"_id"`
	FirstName    string `bson:"first_name,omitempty"`
	LastName     string `bson:"last_name,omitempty"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password"`
	Roles        string `bson:"roles"`
	Version      int64  `bson:"version"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
	DeletedAt    int64  `bson:"deleted_at"`
}

// EnsureIndexes creates the unique email index. Called once at startup; the
// index is what makes the duplicate-registration check race-safe.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		ID:           id,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Roles:        domain.EncodeRoles(user.Roles),
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "deleted_at": 0})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "deleted_at": 0})
}

// UpdateRoles persists the new role set iff the stored version still equals
// expectedVersion. A lost match reports domain.ErrVersionConflict; the caller
// re-reads and retries (or gives up and surfaces the conflict).
func (r *MongoUserRepository) UpdateRoles(ctx context.Context, id int64, roles domain.RoleSet, expectedVersion int64) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "version": expectedVersion, "deleted_at": 0},
		bson.M{
			"$set": bson.M{
				"roles":      domain.EncodeRoles(roles),
				"updated_at": time.Now().UTC().Unix(),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("update roles: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := domain.DecodeRoles(mu.Roles)
	if err != nil {
		return nil, fmt.Errorf("user %d roles field: %w", mu.ID, err)
	}

	return &domain.User{
		ID:           mu.ID,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		Version:      mu.Version,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
		DeletedAt:    unixToTime(mu.DeletedAt),
	}, nil
}

// nextID allocates the next user id from the counters document, creating it
// on first use.
func (r *MongoUserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return counter.Seq, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
