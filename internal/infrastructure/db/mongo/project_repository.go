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

const collectionProjects = "projects"

type projectDoc struct {
	ID             int64     `bson:"_id"`
	ClientID       int64     `bson:"client_id"`
	Country        string    `bson:"country"`
	ServicesNeeded []string  `bson:"services_needed"`
	Budget         float64   `bson:"budget"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (d *projectDoc) toDomain() *domain.Project {
	services := d.ServicesNeeded
	if services == nil {
		services = []string{}
	}
	return &domain.Project{
		ID:             d.ID,
		ClientID:       d.ClientID,
		Country:        d.Country,
		ServicesNeeded: services,
		Budget:         d.Budget,
		Status:         domain.ProjectStatus(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

type ProjectRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects), seq: newSequence(db, collectionProjects)}
}

// Create assigns p.ID and inserts the project.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	doc := projectDoc{
		ID:             id,
		ClientID:       p.ClientID,
		Country:        p.Country,
		ServicesNeeded: p.ServicesNeeded,
		Budget:         p.Budget,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of matching projects, newest first, plus the filtered total.
func (r *ProjectRepository) List(ctx context.Context, f domain.ProjectFilter) ([]*domain.Project, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := projectFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Page.Skip())).
		SetLimit(int64(f.Page.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode projects: %w", err)
	}

	projects := make([]*domain.Project, 0, len(docs))
	for i := range docs {
		projects = append(projects, docs[i].toDomain())
	}
	return projects, total, nil
}

func projectFilter(f domain.ProjectFilter) bson.M {
	filter := bson.M{}
	if f.ClientID != nil {
		filter["client_id"] = *f.ClientID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Country != "" {
		filter["country"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Country), Options: "i"}
	}
	return filter
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, upd domain.ProjectUpdate) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Country != nil {
		set["country"] = *upd.Country
	}
	if upd.ServicesNeeded != nil {
		set["services_needed"] = upd.ServicesNeeded
	}
	if upd.Budget != nil {
		set["budget"] = *upd.Budget
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}

	var doc projectDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the listing indexes on the projects collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
