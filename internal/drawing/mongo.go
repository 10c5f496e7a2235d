package drawing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"plan-sketcher/internal/shape"
	"plan-sketcher/pkg/geometry"
)

// DefaultCollection is the collection drawings are stored in.
const DefaultCollection = "drawings"

// MongoStore keeps drawings in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *slog.Logger
	now    func() time.Time
}

// NewMongoStore connects to uri and verifies the server is reachable.
func NewMongoStore(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("connected to mongo", "database", database, "collection", collection)
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		log:    logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (m *MongoStore) Create(ctx context.Context, in Input) (Drawing, error) {
	if err := in.Validate(); err != nil {
		return Drawing{}, err
	}

	d := newRecord(in, m.now())
	doc, err := toDocument(d)
	if err != nil {
		return Drawing{}, err
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return Drawing{}, fmt.Errorf("insert drawing: %w", err)
	}
	return d, nil
}

func (m *MongoStore) List(ctx context.Context) ([]Drawing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find drawings: %w", err)
	}

	var docs []drawingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read drawings: %w", err)
	}

	out := make([]Drawing, 0, len(docs))
	for _, doc := range docs {
		d, err := fromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("drawing %s: %w", doc.ID.Hex(), err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// BSON documents. Shapes are stored flat with a type tag; fields that do
// not apply to a kind are omitted and read back as zero.

type drawingDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Shapes    []shapeDocument    `bson:"shapes"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type shapeDocument struct {
	Type   string          `bson:"type"`
	X      float64         `bson:"x,omitempty"`
	Y      float64         `bson:"y,omitempty"`
	Width  float64         `bson:"width,omitempty"`
	Height float64         `bson:"height,omitempty"`
	Radius float64         `bson:"radius,omitempty"`
	X1     float64         `bson:"x1,omitempty"`
	Y1     float64         `bson:"y1,omitempty"`
	X2     float64         `bson:"x2,omitempty"`
	Y2     float64         `bson:"y2,omitempty"`
	Points []pointDocument `bson:"points,omitempty"`
}

type pointDocument struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
}

type documentWriter struct {
	doc shapeDocument
}

func (w *documentWriter) VisitRectangle(r shape.Rectangle) {
	w.doc = shapeDocument{Type: string(shape.KindRectangle), X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (w *documentWriter) VisitCircle(c shape.Circle) {
	w.doc = shapeDocument{Type: string(shape.KindCircle), X: c.X, Y: c.Y, Radius: c.Radius}
}

func (w *documentWriter) VisitLine(l shape.Line) {
	w.doc = shapeDocument{Type: string(shape.KindLine), X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2}
}

func (w *documentWriter) VisitPolygon(p shape.Polygon) {
	pts := make([]pointDocument, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = pointDocument{X: pt.X, Y: pt.Y}
	}
	w.doc = shapeDocument{Type: string(shape.KindPolygon), Points: pts}
}

func toDocument(d Drawing) (drawingDocument, error) {
	id, err := primitive.ObjectIDFromHex(d.ID)
	if err != nil {
		return drawingDocument{}, fmt.Errorf("drawing id: %w", err)
	}
	shapes := make([]shapeDocument, len(d.Shapes))
	for i, s := range d.Shapes {
		var w documentWriter
		s.Accept(&w)
		shapes[i] = w.doc
	}
	return drawingDocument{
		ID:        id,
		Name:      d.Name,
		Shapes:    shapes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func fromDocument(doc drawingDocument) (Drawing, error) {
	shapes := make(shape.List, 0, len(doc.Shapes))
	for i, sd := range doc.Shapes {
		kind, err := shape.ParseKind(sd.Type)
		if err != nil {
			return Drawing{}, fmt.Errorf("shape %d: %w", i, err)
		}
		switch kind {
		case shape.KindRectangle:
			shapes = append(shapes, shape.Rectangle{X: sd.X, Y: sd.Y, Width: sd.Width, Height: sd.Height})
		case shape.KindCircle:
			shapes = append(shapes, shape.Circle{X: sd.X, Y: sd.Y, Radius: sd.Radius})
		case shape.KindLine:
			shapes = append(shapes, shape.Line{X1: sd.X1, Y1: sd.Y1, X2: sd.X2, Y2: sd.Y2})
		case shape.KindPolygon:
			pts := make([]geometry.Point2D, len(sd.Points))
			for j, p := range sd.Points {
				pts[j] = geometry.NewPoint2D(p.X, p.Y)
			}
			shapes = append(shapes, shape.Polygon{Points: pts})
		}
	}
	return Drawing{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Shapes:    shapes,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
