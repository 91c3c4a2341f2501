package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

// IdentityKey holds the *auth.Identity of an authenticated call.
const IdentityKey ctxKey = "identity"

func identityFrom(ctx context.Context) (*auth.Identity, error) {
	id, ok := ctx.Value(IdentityKey).(*auth.Identity)
	if !ok || id == nil {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}
	return id, nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if !strings.HasPrefix(info.FullMethod, "/"+api.ServiceName+"/") || api.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	id, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	ctx = context.WithValue(ctx, IdentityKey, id)

	return handler(ctx, req)
}

// metricsInterceptor counts every call by its final status code.
func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	method := info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]
	s.recorder.RPC(method, status.Code(err).String())
	return resp, err
}
