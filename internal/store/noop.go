package store

import "context"

// NoopStore is used when no cache path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Load(_ context.Context, _ string) (*CandleBatch, error) { return nil, ErrNotFound }
func (n *NoopStore) Save(_ context.Context, _ *CandleBatch) error           { return nil }
func (n *NoopStore) Close() error                                           { return nil }
