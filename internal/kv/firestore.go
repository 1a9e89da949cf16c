package kv

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreValueField = "value"

// Firestore keeps each key as a document whose "value" field holds the block.
type Firestore struct {
	client     *firestore.Client
	collection string
}

func NewFirestore(ctx context.Context, projectID, collection string) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &Firestore{client: client, collection: collection}, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore get %s: %w", key, err)
	}

	v, err := doc.DataAt(firestoreValueField)
	if err != nil {
		return nil, fmt.Errorf("firestore get %s: %w", key, err)
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("firestore get %s: value is %T, want string", key, v)
	}
	return []byte(s), nil
}

func (f *Firestore) Set(ctx context.Context, key string, value []byte) error {
	_, err := f.client.Collection(f.collection).Doc(key).Set(ctx, map[string]interface{}{
		firestoreValueField: string(value),
	})
	if err != nil {
		return fmt.Errorf("firestore set %s: %w", key, err)
	}
	return nil
}
