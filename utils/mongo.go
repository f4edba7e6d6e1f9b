package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Client is the process-wide MongoDB handle, set once by ConnectMongo.
var Client *mongo.Client

// ConnectMongo establishes the shared client and verifies it with a ping.
func ConnectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	Client = client
	log.Println("MongoDB connection established")
	return nil
}

// GetCollection returns a handle to a collection on the shared client.
func GetCollection(databaseName, collectionName string) *mongo.Collection {
	if Client == nil {
		log.Fatal("GetCollection called before ConnectMongo")
	}
	return Client.Database(databaseName).Collection(collectionName)
}
