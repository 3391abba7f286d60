package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// MongoConfig holds connection settings for MongoStore.
type MongoConfig struct {
	URI        string
	Database   string // default "transport"
	Collection string // default "tasks"
}

// MongoStore keeps tasks in a MongoDB collection, one document per task.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "transport"
	}
	if cfg.Collection == "" {
		cfg.Collection = "tasks"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date_creation", Value: -1}}},
		{Keys: bson.D{{Key: "date_modification", Value: -1}}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

// taskDoc is the stored form of a Task. Tableaux are kept in their plain
// row form; date_modification duplicates LastModified for sorting.
type taskDoc struct {
	ID              string      `bson:"_id"`
	Name            string      `bson:"nom"`
	Supply          []float64   `bson:"offres"`
	Demand          []float64   `bson:"demandes"`
	Costs           [][]float64 `bson:"couts"`
	Method          string      `bson:"algo_utilise"`
	Result          *resultDoc  `bson:"resultat,omitempty"`
	TotalCost       *float64    `bson:"cout_total,omitempty"`
	InitialResult   *resultDoc  `bson:"initial_result,omitempty"`
	OptimizedResult *resultDoc  `bson:"optimized_result,omitempty"`
	IsOptimized     bool        `bson:"is_optimized"`
	CreatedAt       time.Time   `bson:"date_creation"`
	UpdatedAt       *time.Time  `bson:"date_derniere_maj,omitempty"`
	ModifiedAt      time.Time   `bson:"date_modification"`
}

type resultDoc struct {
	Allocation [][]*float64 `bson:"allocation"`
	TotalCost  float64      `bson:"cout_total"`
	Status     string       `bson:"status,omitempty"`
	Rounds     int          `bson:"rounds,omitempty"`
}

func toDoc(t *Task) taskDoc {
	return taskDoc{
		ID:              t.ID,
		Name:            t.Name,
		Supply:          t.Supply,
		Demand:          t.Demand,
		Costs:           t.Costs,
		Method:          t.Method,
		Result:          toResultDoc(t.Result),
		TotalCost:       t.TotalCost,
		InitialResult:   toResultDoc(t.InitialResult),
		OptimizedResult: toResultDoc(t.OptimizedResult),
		IsOptimized:     t.IsOptimized,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		ModifiedAt:      t.LastModified(),
	}
}

func toResultDoc(r *Result) *resultDoc {
	if r == nil {
		return nil
	}
	d := &resultDoc{TotalCost: r.TotalCost, Status: string(r.Status), Rounds: r.Rounds}
	if r.Allocation != nil {
		d.Allocation = r.Allocation.ToRows()
	}
	return d
}

func (d taskDoc) task() (*Task, error) {
	t := &Task{
		ID:          d.ID,
		Name:        d.Name,
		Supply:      d.Supply,
		Demand:      d.Demand,
		Costs:       d.Costs,
		Method:      d.Method,
		TotalCost:   d.TotalCost,
		IsOptimized: d.IsOptimized,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	var err error
	if t.Result, err = d.Result.result(); err != nil {
		return nil, fmt.Errorf("task %s: resultat: %w", d.ID, err)
	}
	if t.InitialResult, err = d.InitialResult.result(); err != nil {
		return nil, fmt.Errorf("task %s: initial_result: %w", d.ID, err)
	}
	if t.OptimizedResult, err = d.OptimizedResult.result(); err != nil {
		return nil, fmt.Errorf("task %s: optimized_result: %w", d.ID, err)
	}
	return t, nil
}

func (d *resultDoc) result() (*Result, error) {
	if d == nil {
		return nil, nil
	}
	r := &Result{TotalCost: d.TotalCost, Status: transport.Status(d.Status), Rounds: d.Rounds}
	if d.Allocation != nil {
		tab, err := transport.TableauFromRows(d.Allocation)
		if err != nil {
			return nil, err
		}
		r.Allocation = tab
	}
	return r, nil
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func (s *MongoStore) Create(ctx context.Context, t *Task) error {
	prepare(t, s.now())
	if _, err := s.coll.InsertOne(ctx, toDoc(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", t.ID, ErrExists)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Task, error) {
	var doc taskDoc
	if err := s.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.task()
}

func (s *MongoStore) Update(ctx context.Context, t *Task) error {
	res, err := s.coll.ReplaceOne(ctx, byID(t.ID), toDoc(t))
	if err != nil {
		return fmt.Errorf("replace task: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// summaryProjection leaves out the problem data and plans.
var summaryProjection = bson.D{
	{Key: "nom", Value: 1},
	{Key: "algo_utilise", Value: 1},
	{Key: "cout_total", Value: 1},
	{Key: "is_optimized", Value: 1},
	{Key: "date_creation", Value: 1},
	{Key: "date_derniere_maj", Value: 1},
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date_creation", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(summaryProjection)
	return s.find(ctx, opts)
}

func (s *MongoStore) Recent(ctx context.Context, n int) ([]Summary, error) {
	if n <= 0 {
		n = DefaultRecent
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date_modification", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(summaryProjection).
		SetLimit(int64(n))
	return s.find(ctx, opts)
}

func (s *MongoStore) find(ctx context.Context, opts *options.FindOptions) ([]Summary, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, Summary{
			ID:          d.ID,
			Name:        d.Name,
			Method:      d.Method,
			TotalCost:   d.TotalCost,
			IsOptimized: d.IsOptimized,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		})
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
