package demand

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/utils/config"
)

type demandDoc struct {
	ID          string `bson:"id"`
	Departure   string `bson:"departure"`
	Origin      string `bson:"origin"`
	Destination string `bson:"destination"`
}

// NewMongoManager loads the whole demand collection upfront, sorted by
// departure, and serves it from memory.
func NewMongoManager(ctx context.Context, cfg config.DemandInput) (*BaseManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	defer client.Disconnect(ctx)

	cur, err := client.Database(cfg.DB).Collection(cfg.Col).Find(
		ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "departure", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("query demand collection: %w", err)
	}
	defer cur.Close(ctx)

	var travelers []*traveler.Traveler
	for cur.Next(ctx) {
		var doc demandDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode demand document: %w", err)
		}
		dep, err := clock.Parse(doc.Departure)
		if err != nil {
			return nil, fmt.Errorf("traveler %s: %w", doc.ID, err)
		}
		travelers = append(travelers, traveler.New(doc.ID, doc.Origin, doc.Destination, dep))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate demand collection: %w", err)
	}
	log.Infof("loaded %d travelers from mongodb %s.%s", len(travelers), cfg.DB, cfg.Col)
	return NewBaseManager(travelers), nil
}
