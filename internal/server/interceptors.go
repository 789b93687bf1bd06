package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// healthMethodPrefix covers Check and Watch on the standard health service.
const healthMethodPrefix = "/grpc.health.v1.Health/"

var (
	errMissingAuth = errors.New("missing authorization header")
	errAuthScheme  = errors.New("invalid authorization scheme")
	errBadToken    = errors.New("invalid token")
)

// checkBearer validates an Authorization header value against token.
func checkBearer(header, token string) error {
	if header == "" {
		return errMissingAuth
	}
	provided, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return errAuthScheme
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
		return errBadToken
	}
	return nil
}

// authorizeRPC checks the bearer token of an incoming call. Health checks
// stay open so load balancers and `facets health --grpc` work without a token;
// reflection is guarded.
func authorizeRPC(ctx context.Context, token, fullMethod string) error {
	if token == "" || strings.HasPrefix(fullMethod, healthMethodPrefix) {
		return nil
	}
	var header string
	if vals := metadata.ValueFromIncomingContext(ctx, "authorization"); len(vals) > 0 {
		header = vals[0]
	}
	if err := checkBearer(header, token); err != nil {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	return nil
}

// recovered converts a panic value into codes.Internal after logging it.
func recovered(logger *slog.Logger, method string, r any) error {
	logger.Error("panic recovered in gRPC handler",
		"method", method,
		"panic", fmt.Sprintf("%v", r),
		"stack", string(debug.Stack()),
	)
	return status.Errorf(codes.Internal, "internal server error")
}

// unaryInterceptor recovers panics, authorizes, and logs each unary call.
func unaryInterceptor(logger *slog.Logger, token string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				err = recovered(logger, info.FullMethod, r)
			}
			logRPC(logger, info.FullMethod, time.Since(start), err)
		}()
		if err := authorizeRPC(ctx, token, info.FullMethod); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// streamInterceptor applies the same chain to streaming calls: health
// Watch and server reflection.
func streamInterceptor(logger *slog.Logger, token string) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				err = recovered(logger, info.FullMethod, r)
			}
			logRPC(logger, info.FullMethod, time.Since(start), err)
		}()
		if err := authorizeRPC(ss.Context(), token, info.FullMethod); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

func logRPC(logger *slog.Logger, method string, d time.Duration, err error) {
	if err != nil {
		logger.Warn("rpc failed", "method", method, "duration", d, "code", status.Code(err), "err", err)
		return
	}
	logger.Debug("rpc completed", "method", method, "duration", d)
}

// AuthMiddleware wraps an http.Handler and checks the Authorization header for
// a valid Bearer token. When token is empty, auth is disabled and all requests
// pass through. GET /v1/health is always exempt.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}
		if err := checkBearer(r.Header.Get("Authorization"), token); err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
