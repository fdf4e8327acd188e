package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connection wraps the mongo client handle shared by the store and server.
type Connection struct {
	*mongo.Client
}

var connection *Connection

// Connect dials mongo and pings the primary before handing the connection
// out.
func Connect(ctx context.Context, uri string) (*Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	log.Printf("Connected to mongo at %s", uri)
	connection = &Connection{client}
	return connection, nil
}

// GetConnection returns the process-wide connection established by Connect.
func GetConnection() *Connection {
	return connection
}
