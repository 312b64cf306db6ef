package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Aradhik11/fx-trading/internal/infra/mongodb"
)

// TransactionEvent is the JSON payload published by the API on every
// completed ledger operation. Amounts arrive as strings so the audit trail
// keeps full decimal precision.
type TransactionEvent struct {
	TransactionID  string `json:"transaction_id"`
	UserID         string `json:"user_id"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	SourceCurrency string `json:"source_currency"`
	SourceAmount   string `json:"source_amount"`
	TargetCurrency string `json:"target_currency"`
	TargetAmount   string `json:"target_amount"`
	Rate           string `json:"rate"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	mongoUser := os.Getenv("MONGO_USER")
	mongoPass := os.Getenv("MONGO_PASS")
	mongoHost := os.Getenv("MONGO_HOST")
	if mongoHost == "" {
		mongoHost = "localhost"
	}
	mongoURI := "mongodb://" + mongoUser + ":" + mongoPass + "@" + mongoHost + ":27017"

	clientOptions := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(clientOptions)
	if err != nil {
		log.Fatalf("failed to create MongoDB client: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("failed to disconnect from Mongo: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	log.Println("connected to MongoDB")
	auditRepo := mongodb.NewAuditRepository(mongoClient, "fxtrading_audit")

	rabbitUser := os.Getenv("RABBITMQ_USER")
	rabbitPass := os.Getenv("RABBITMQ_PASS")
	rabbitHost := os.Getenv("RABBITMQ_HOST")
	if rabbitHost == "" {
		rabbitHost = "localhost"
	}

	rabbitURL := "amqp://" + rabbitUser + ":" + rabbitPass + "@" + rabbitHost + ":5672/"
	conn, err := amqp.DialConfig(rabbitURL, amqp.Config{
		Properties: amqp.Table{
			"connection_name": "AuditWorker_Consumer",
		},
	})
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("failed to close RabbitMQ connection: %v", err)
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() {
		if err := ch.Close(); err != nil {
			log.Printf("failed to close RabbitMQ channel: %v", err)
		}
	}()

	// Prefetch one message at a time; the broker waits for the Ack before
	// sending the next.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatalf("failed to configure QoS: %v", err)
	}

	err = ch.ExchangeDeclare(
		"fx_events", // name
		"topic",     // type
		true,        // durable
		false,       // auto-deleted
		false,       // internal
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		log.Fatalf("failed to declare exchange: %v", err)
	}

	q, err := ch.QueueDeclare(
		"audit_queue", // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// Everything published under transaction.* lands in the audit queue.
	err = ch.QueueBind(
		q.Name,
		"transaction.#",
		"fx_events",
		false,
		nil,
	)
	if err != nil {
		log.Fatalf("failed to bind queue: %v", err)
	}

	msgs, err := ch.Consume(
		q.Name,         // queue
		"audit_worker", // consumer tag
		false,          // auto-ack off: we ack after the Mongo write
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		log.Fatalf("failed to register consumer: %v", err)
	}

	notifyClose := make(chan *amqp.Error)
	ch.NotifyClose(notifyClose)

	log.Printf("worker started, waiting for messages on %s", q.Name)

	go func() {
		for {
			select {
			case err := <-notifyClose:
				if err != nil {
					log.Printf("RabbitMQ channel closed: %v", err)
					os.Exit(1)
				}
				return
			case d, ok := <-msgs:
				if !ok {
					log.Println("message channel closed")
					os.Exit(1)
				}

				var event TransactionEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					log.Printf("failed to decode event JSON: %v", err)
					if err := d.Nack(false, false); err != nil {
						log.Printf("failed to Nack invalid message: %v", err)
					}
					continue
				}

				auditLog := mongodb.AuditLog{
					TransactionID:  event.TransactionID,
					UserID:         event.UserID,
					Type:           event.Type,
					Status:         event.Status,
					SourceCurrency: event.SourceCurrency,
					SourceAmount:   event.SourceAmount,
					TargetCurrency: event.TargetCurrency,
					TargetAmount:   event.TargetAmount,
					Rate:           event.Rate,
				}

				saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := auditRepo.Save(saveCtx, auditLog); err != nil {
					log.Printf("failed to save audit log: %v", err)
					// Requeue so the entry is not lost.
					if err := d.Nack(false, true); err != nil {
						log.Printf("failed to Nack message: %v", err)
					}
					cancel()
					continue
				}
				cancel()

				if err := d.Ack(false); err != nil {
					log.Printf("failed to Ack message: %v", err)
				}
			}
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	<-stopChan

	log.Println("shutting down worker...")
}
