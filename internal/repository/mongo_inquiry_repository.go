package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kvbuilders/site/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InquiryCollection is the MongoDB collection holding inquiries.
const InquiryCollection = "contact_inquiries"

// MongoInquiryRepository is the MongoDB implementation of InquiryRepository.
// Documents are keyed by the application-assigned "id" field, not _id.
type MongoInquiryRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoInquiryRepository creates a repository over db.contact_inquiries.
func NewMongoInquiryRepository(client *mongo.Client, database string) *MongoInquiryRepository {
	return &MongoInquiryRepository{
		client: client,
		coll:   client.Database(database).Collection(InquiryCollection),
	}
}

var _ InquiryRepository = (*MongoInquiryRepository)(nil)

func (r *MongoInquiryRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// EnsureIndexes creates the unique id index and the timestamp sort index.
func (r *MongoInquiryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
	return err
}

func (r *MongoInquiryRepository) Save(ctx context.Context, inq *model.Inquiry) error {
	_, err := r.coll.InsertOne(ctx, inq)
	return err
}

func (r *MongoInquiryRepository) List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
	filter := bson.M{}
	if opts.Filter != "" && opts.Filter != model.FilterAll {
		filter["status"] = string(opts.Filter)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit)).
		SetProjection(bson.M{"_id": 0})

	cur, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var inquiries []*model.Inquiry
	for cur.Next(ctx) {
		var doc inquiryDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		inq, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("inquiry %s: %w", doc.ID, err)
		}
		inquiries = append(inquiries, inq)
	}
	return inquiries, cur.Err()
}

// UpdateStatus uses MatchedCount so re-applying the current status is not
// reported as a missing record.
func (r *MongoInquiryRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// inquiryDocument is the stored shape read back from the collection. New
// documents carry timestamp as a BSON date; older ones hold an ISO-8601
// string.
type inquiryDocument struct {
	ID        string        `bson:"id"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Phone     string        `bson:"phone,omitempty"`
	Service   string        `bson:"service"`
	Message   string        `bson:"message"`
	Status    model.Status  `bson:"status"`
	Timestamp bson.RawValue `bson:"timestamp"`
}

func (d inquiryDocument) toModel() (*model.Inquiry, error) {
	ts, err := decodeTimestamp(d.Timestamp)
	if err != nil {
		return nil, err
	}
	return &model.Inquiry{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Service:   d.Service,
		Message:   d.Message,
		Status:    d.Status,
		Timestamp: ts,
	}, nil
}

// isoLayouts accepts offset timestamps and naive ones, which are read as UTC.
var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}

func decodeTimestamp(v bson.RawValue) (time.Time, error) {
	switch v.Type {
	case bsontype.DateTime:
		return time.UnixMilli(v.DateTime()).UTC(), nil
	case bsontype.String:
		s := v.StringValue()
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("timestamp: cannot parse %q", s)
	case 0, bsontype.Null:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("timestamp: unsupported BSON type %s", v.Type)
}
