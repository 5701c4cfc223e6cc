package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/customer-directory/customer-api/internal/core/domain"
)

type customerDoc struct {
	ID       int64  `bson:"_id"`
	Name     string `bson:"name"`
	Password string `bson:"password,omitempty"`
	Email    string `bson:"email"`
	Age      int    `bson:"age"`
	Gender   string `bson:"gender"`
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{
		ID:           d.ID,
		Name:         d.Name,
		PasswordHash: d.Password,
		Email:        d.Email,
		Age:          d.Age,
		Gender:       d.Gender,
	}
}

type CustomerRepository struct {
	db       *mongo.Database
	coll     *mongo.Collection
	counters *mongo.Collection
	log      zerolog.Logger
}

func NewCustomerRepository(db *mongo.Database, log zerolog.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:       db,
		coll:     db.Collection(customerCollection),
		counters: db.Collection(counterCollection),
		log:      log,
	}
}

func (r *CustomerRepository) ListAll(ctx context.Context) ([]domain.Customer, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Customer, 0)
	for cur.Next(ctx) {
		var d customerDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var d customerDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.CustomerNotFound(id)
		}
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	c := d.toDomain()
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var d customerDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.CustomerEmailNotFound(email)
		}
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	c := d.toDomain()
	return &c, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *CustomerRepository) Insert(ctx context.Context, c *domain.Customer) error {
	if c.Persisted() {
		return domain.Validationf("customer already has id %d", c.ID)
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := customerDoc{
		ID:       id,
		Name:     c.Name,
		Password: c.PasswordHash,
		Email:    c.Email,
		Age:      c.Age,
		Gender:   c.Gender,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, id int64, patch domain.CustomerPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	r.log.Debug().Int64("customer_id", id).Strs("fields", patch.Fields()).Msg("updating customer")

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, updateDoc(patch))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update customer %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.CustomerNotFound(id)
	}
	return nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.CustomerNotFound(id)
	}
	return nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *CustomerRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return n > 0, nil
}

// nextID hands out monotonically increasing ids from a counter document so
// ids stay numeric like the SQL backends.
func (r *CustomerRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": customerCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next customer id: %w", err)
	}
	return counter.Seq, nil
}

func updateDoc(p domain.CustomerPatch) bson.M {
	set := bson.M{}
	unset := bson.M{}

	if v, ok := p.Name.Get(); ok {
		set["name"] = v
	}
	if v, ok := p.Email.Get(); ok {
		set["email"] = v
	}
	if v, ok := p.Age.Get(); ok {
		set["age"] = v
	}
	if v, ok := p.Gender.Get(); ok {
		set["gender"] = v
	}
	if v, ok := p.PasswordHash.Get(); ok {
		set["password"] = v
	} else if p.PasswordHash.IsClear() {
		unset["password"] = ""
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
