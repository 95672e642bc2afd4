package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

const collectionVendors = "vendors"

type vendorDoc struct {
	ID                 int64     `bson:"_id"`
	Name               string    `bson:"name"`
	CountriesSupported []string  `bson:"countries_supported"`
	ServicesOffered    []string  `bson:"services_offered"`
	Rating             float64   `bson:"rating"`
	ResponseSLAHours   int       `bson:"response_sla_hours"`
	CreatedAt          time.Time `bson:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at"`
}

func (d *vendorDoc) toDomain() *domain.Vendor {
	v := &domain.Vendor{
		ID:                 d.ID,
		Name:               d.Name,
		CountriesSupported: d.CountriesSupported,
		ServicesOffered:    d.ServicesOffered,
		Rating:             d.Rating,
		ResponseSLAHours:   d.ResponseSLAHours,
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}
	if v.CountriesSupported == nil {
		v.CountriesSupported = []string{}
	}
	if v.ServicesOffered == nil {
		v.ServicesOffered = []string{}
	}
	return v
}

type VendorRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewVendorRepository(db *mongo.Database) *VendorRepository {
	return &VendorRepository{col: db.Collection(collectionVendors), seq: newSequence(db, collectionVendors)}
}

// Create assigns v.ID and inserts the vendor.
func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	doc := vendorDoc{
		ID:                 id,
		Name:               v.Name,
		CountriesSupported: v.CountriesSupported,
		ServicesOffered:    v.ServicesOffered,
		Rating:             v.Rating,
		ResponseSLAHours:   v.ResponseSLAHours,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	v.ID = id
	return nil
}

func (r *VendorRepository) FindByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vendorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	return doc.toDomain(), nil
}

// Candidates pushes the scalar predicates of q down to MongoDB.
func (r *VendorRepository) Candidates(ctx context.Context, q domain.VendorQuery) ([]*domain.Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, vendorFilter(q))
	if err != nil {
		return nil, fmt.Errorf("find vendors: %w", err)
	}
	var docs []vendorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode vendors: %w", err)
	}

	vendors := make([]*domain.Vendor, 0, len(docs))
	for i := range docs {
		vendors = append(vendors, docs[i].toDomain())
	}
	return vendors, nil
}

// vendorFilter covers the predicates MongoDB can evaluate on scalar fields.
func vendorFilter(q domain.VendorQuery) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
	}
	if q.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": q.MinRating}
	}
	if q.MaxSLAHours > 0 {
		filter["response_sla_hours"] = bson.M{"$lte": q.MaxSLAHours}
	}
	return filter
}

func (r *VendorRepository) Update(ctx context.Context, id int64, upd domain.VendorUpdate) (*domain.Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.CountriesSupported != nil {
		set["countries_supported"] = upd.CountriesSupported
	}
	if upd.ServicesOffered != nil {
		set["services_offered"] = upd.ServicesOffered
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.ResponseSLAHours != nil {
		set["response_sla_hours"] = *upd.ResponseSLAHours
	}

	var doc vendorDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VendorRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// EnsureIndexes creates the search indexes on the vendors collection.
func (r *VendorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "rating", Value: -1}, {Key: "response_sla_hours", Value: 1}}},
		{Keys: bson.D{{Key: "countries_supported", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
