package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	keelv1 "github.com/emberline/keel/gen/keel/v1"
	"github.com/emberline/keel/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCClient implements RuntimeClient using the gRPC transport.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client keelv1.RuntimeServiceClient
}

// Compile-time check that GRPCClient implements RuntimeClient.
var _ RuntimeClient = (*GRPCClient)(nil)

// NewGRPCClient connects to the given gRPC address and returns a client.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		client: keelv1.NewRuntimeServiceClient(conn),
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Execute(ctx context.Context, category, id, command, payload, causationID string) (*ExecuteResult, error) {
	resp, err := c.client.Execute(ctx, &keelv1.ExecuteRequest{
		Category:    category,
		Id:          id,
		Command:     command,
		Payload:     payload,
		CausationId: causationID,
	})
	if err != nil {
		return nil, err
	}
	return &ExecuteResult{
		Success: resp.GetSuccess(),
		Message: resp.GetMessage(),
		Events:  protoToEvents(resp.GetEvents()),
	}, nil
}

func (c *GRPCClient) Publish(ctx context.Context, name string, module []byte) (*PublishResult, error) {
	resp, err := c.client.Publish(ctx, &keelv1.PublishRequest{Name: name, Module: module})
	if err != nil {
		return nil, err
	}
	return &PublishResult{
		Success: resp.GetSuccess(),
		Message: resp.GetMessage(),
		Version: resp.GetVersion(),
	}, nil
}

// Subscribe opens the server stream and pumps events onto a channel. The
// channel closes when the stream ends or ctx is cancelled.
func (c *GRPCClient) Subscribe(ctx context.Context, name string, filter model.Filter) (<-chan model.Event, error) {
	filters := make([]*keelv1.EventInterest, len(filter))
	for i, f := range filter {
		filters[i] = &keelv1.EventInterest{Category: f.Category, EventType: f.EventType}
	}

	stream, err := c.client.SubscribeToEvents(ctx, &keelv1.SubscribeRequest{
		Name:    name,
		Filters: filters,
	})
	if err != nil {
		return nil, err
	}

	ch := make(chan model.Event, 64)
	go func() {
		defer close(ch)
		for {
			msg, err := stream.Recv()
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			if err != nil {
				return
			}
			select {
			case ch <- protoToEvent(msg):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (c *GRPCClient) Acknowledge(ctx context.Context, name string, globalID uint64) error {
	_, err := c.client.AcknowledgeEvent(ctx, &keelv1.AckRequest{Name: name, GlobalId: globalID})
	return err
}

func protoToEvent(msg *keelv1.Message) model.Event {
	return model.Event{
		ID:         msg.GetId(),
		GlobalID:   msg.GetGlobalId(),
		Sequence:   msg.GetPosition(),
		StreamName: model.StreamName(msg.GetStreamName()),
		EventType:  msg.GetMsgType(),
		Data:       json.RawMessage(msg.GetData()),
		Time:       time.UnixMilli(msg.GetTime()).UTC(),
	}
}

func protoToEvents(msgs []*keelv1.Message) []model.Event {
	events := make([]model.Event, len(msgs))
	for i, msg := range msgs {
		events[i] = protoToEvent(msg)
	}
	return events
}
