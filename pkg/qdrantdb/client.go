package qdrantdb

import (
	"github.com/qdrant/go-client/qdrant"
)

type ChunkClient struct {
	Client     *qdrant.Client
	Collection string
}

func NewClient(host string, port int, collection string) (*ChunkClient, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port, // gRPC port
	})
	if err != nil {
		return nil, err
	}
	return &ChunkClient{Client: client, Collection: collection}, nil
}

func (c *ChunkClient) Close() error {
	return c.Client.Close()
}
