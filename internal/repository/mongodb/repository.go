package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
)

const headersCollection = "store_headers"

type headerDoc struct {
	ID      string   `bson:"_id"`
	Columns []string `bson:"columns"`
}

type rowDoc struct {
	Values    []interface{} `bson:"values"`
	CreatedAt time.Time     `bson:"created_at"`
}

// MongoDBRepository keeps each remote store in its own collection. Header rows
// live in a shared store_headers collection keyed by store ID.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Append stores the row values after checking them against the recorded header.
func (r *MongoDBRepository) Append(ctx context.Context, storeID string, row models.Row) error {
	if storeID == "" {
		return repository.ErrEmptyStoreID
	}

	header, err := r.header(ctx, storeID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		doc := headerDoc{ID: storeID, Columns: row.Columns()}
		if _, err := r.db.Collection(headersCollection).InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to insert header for %s: %w", storeID, err)
		}
		// A concurrent first append may have won the insert; re-read to compare.
		if header, err = r.header(ctx, storeID); err != nil {
			return fmt.Errorf("failed to load header for %s: %w", storeID, err)
		}
	case err != nil:
		return fmt.Errorf("failed to load header for %s: %w", storeID, err)
	}

	if err := repository.CheckHeader(header.Columns, row); err != nil {
		return fmt.Errorf("collection %s: %w", storeID, err)
	}

	if _, err := r.db.Collection(storeID).InsertOne(ctx, rowDoc{Values: row.Values(), CreatedAt: time.Now().UTC()}); err != nil {
		return fmt.Errorf("failed to insert row into %s: %w", storeID, err)
	}
	return nil
}

// ReadAll returns every row of the store in insertion order.
func (r *MongoDBRepository) ReadAll(ctx context.Context, storeID string) (models.Table, error) {
	if storeID == "" {
		return models.Table{}, repository.ErrEmptyStoreID
	}

	header, err := r.header(ctx, storeID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Table{}, nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to load header for %s: %w", storeID, err)
	}

	cursor, err := r.db.Collection(storeID).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to query %s: %w", storeID, err)
	}
	defer cursor.Close(ctx)

	var docs []rowDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return models.Table{}, fmt.Errorf("failed to decode %s: %w", storeID, err)
	}

	table := models.Table{Columns: header.Columns, Rows: make([][]string, 0, len(docs))}
	for _, d := range docs {
		cells := make([]string, len(d.Values))
		for i, v := range d.Values {
			cells[i] = repository.CellString(v)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) header(ctx context.Context, storeID string) (headerDoc, error) {
	var doc headerDoc
	err := r.db.Collection(headersCollection).FindOne(ctx, bson.D{{Key: "_id", Value: storeID}}).Decode(&doc)
	return doc, err
}
