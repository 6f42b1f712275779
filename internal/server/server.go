package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	keelv1 "github.com/emberline/keel/gen/keel/v1"
	"github.com/emberline/keel/internal/model"
	"github.com/emberline/keel/internal/runtime"
	"github.com/emberline/keel/internal/wasm"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RuntimeServer implements the keelv1.RuntimeServiceServer interface.
type RuntimeServer struct {
	keelv1.UnimplementedRuntimeServiceServer
	runtime *runtime.Runtime
	logger  *slog.Logger
}

// NewRuntimeServer returns a new RuntimeServer backed by the given runtime.
func NewRuntimeServer(rt *runtime.Runtime, logger *slog.Logger) *RuntimeServer {
	return &RuntimeServer{runtime: rt, logger: logger}
}

// Execute routes a command to its aggregate. Domain rejections are reported
// in-band (success=false); system failures become opaque Internal statuses.
func (s *RuntimeServer) Execute(ctx context.Context, req *keelv1.ExecuteRequest) (*keelv1.ExecuteResponse, error) {
	cmd := &model.Command{
		Category:    req.GetCategory(),
		ID:          req.GetId(),
		Name:        req.GetCommand(),
		Payload:     json.RawMessage(req.GetPayload()),
		CausationID: req.GetCausationId(),
	}
	if err := cmd.Validate(); err != nil {
		return nil, toStatus(err)
	}

	res, err := s.runtime.Execute(ctx, cmd)
	if err != nil {
		return nil, toStatus(err)
	}

	if res.Err != nil {
		var de *model.DomainError
		if errors.As(res.Err, &de) {
			// Message carries the machine-readable code; callers switch
			// on it.
			msg := de.Code
			if msg == "" {
				msg = de.Message
			}
			return &keelv1.ExecuteResponse{Success: false, Message: msg}, nil
		}
		return nil, toStatus(res.Err)
	}

	msg := "ok"
	if res.Ignored {
		msg = "ignored"
		if res.IgnoreReason != "" {
			msg = "ignored: " + res.IgnoreReason
		}
	}

	return &keelv1.ExecuteResponse{
		Success: true,
		Message: msg,
		Events:  eventsToProto(res.Events),
	}, nil
}

// Publish validates a wasm module and stores it in the registry.
func (s *RuntimeServer) Publish(ctx context.Context, req *keelv1.PublishRequest) (*keelv1.PublishResponse, error) {
	entry, err := s.runtime.PublishModule(ctx, req.GetName(), req.GetModule())
	if err != nil {
		var le *wasm.LoadError
		if errors.As(err, &le) {
			// A broken module is the caller's problem, reported in-band.
			return &keelv1.PublishResponse{Success: false, Message: le.Error()}, nil
		}
		return nil, toStatus(err)
	}
	return &keelv1.PublishResponse{
		Success: true,
		Message: "ok",
		Version: entry.Version,
	}, nil
}

// SubscribeToEvents streams matching events until the client disconnects.
func (s *RuntimeServer) SubscribeToEvents(req *keelv1.SubscribeRequest, stream keelv1.RuntimeService_SubscribeToEventsServer) error {
	filter := make(model.Filter, 0, len(req.GetFilters()))
	for _, f := range req.GetFilters() {
		filter = append(filter, model.EventInterest{
			Category:  f.GetCategory(),
			EventType: f.GetEventType(),
		})
	}

	sub, err := s.runtime.Subscribe(stream.Context(), req.GetName(), filter)
	if err != nil {
		return toStatus(err)
	}
	defer sub.Close()

	ctx := stream.Context()
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := stream.Send(eventToProto(&ev)); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// AcknowledgeEvent advances the named cursor.
func (s *RuntimeServer) AcknowledgeEvent(ctx context.Context, req *keelv1.AckRequest) (*keelv1.AckResponse, error) {
	if err := s.runtime.Acknowledge(ctx, req.GetName(), req.GetGlobalId()); err != nil {
		return nil, toStatus(err)
	}
	return &keelv1.AckResponse{Success: true, Message: "ok"}, nil
}

// toStatus maps runtime errors onto gRPC codes. Internal detail never
// crosses the RPC edge; it is already logged where it happened.
func toStatus(err error) error {
	var (
		ie *model.InvalidInputError
		nf *model.NotFoundError
	)
	switch {
	case errors.As(err, &ie):
		return status.Error(codes.InvalidArgument, ie.Error())
	case errors.As(err, &nf):
		return status.Error(codes.NotFound, nf.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "command deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
