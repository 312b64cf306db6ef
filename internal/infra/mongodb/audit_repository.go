package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AuditLog is the document written for every completed ledger operation.
// Amounts travel as strings to keep the full decimal precision in Mongo.
type AuditLog struct {
	ID             string    `bson:"_id,omitempty"`
	TransactionID  string    `bson:"transaction_id"`
	UserID         string    `bson:"user_id"`
	Type           string    `bson:"type"`
	Status         string    `bson:"status"`
	SourceCurrency string    `bson:"source_currency"`
	SourceAmount   string    `bson:"source_amount"`
	TargetCurrency string    `bson:"target_currency"`
	TargetAmount   string    `bson:"target_amount"`
	Rate           string    `bson:"rate"`
	ProcessedAt    time.Time `bson:"processed_at"`
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	collection := client.Database(dbName).Collection("audit_logs")
	return &AuditRepository{collection: collection}
}

func (r *AuditRepository) Save(ctx context.Context, log AuditLog) error {
	log.ProcessedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
