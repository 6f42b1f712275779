package server

import (
	keelv1 "github.com/emberline/keel/gen/keel/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer creates a gRPC server with standard interceptors,
// registers the RuntimeService, reflection, and returns the server ready to serve.
func NewGRPCServer(runtimeServer *RuntimeServer) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
		),
		grpc.ChainStreamInterceptor(
			StreamRecoveryInterceptor,
			StreamLoggingInterceptor,
		),
	)

	keelv1.RegisterRuntimeServiceServer(srv, runtimeServer)
	reflection.Register(srv)

	return srv
}
