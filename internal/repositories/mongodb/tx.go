package mongodb

import (
	"context"

	"carpool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type txRunner struct {
	client *mongo.Client
}

// NewTxRunner wires Mongo multi-document transactions behind the
// TxRunner contract. The session context passed to fn satisfies
// context.Context, so repositories join the transaction transparently.
func NewTxRunner(client *mongo.Client) interfaces.TxRunner {
	return &txRunner{client: client}
}

func (t *txRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
