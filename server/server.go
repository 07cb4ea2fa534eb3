// Package server serves catalog fixtures over Connect.
//
// The service has two unary procedures. Both use well-known protobuf types,
// so any Connect, gRPC or gRPC-Web client can call them without generated
// code:
//
//	/fixture.v1.FixtureService/Build   Struct{states: [string], count: number} -> ListValue of record structs
//	/fixture.v1.FixtureService/States  Struct{} -> ListValue of state names
//
// Every Build request starts a fresh builder from the catalog defaults, applies
// the requested states in order and builds count records (1 when omitted).
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/fixture/builder"
	"github.com/tailored-agentic-units/fixture/catalog"
	"github.com/tailored-agentic-units/fixture/config"
	"github.com/tailored-agentic-units/fixture/entity"
	"github.com/tailored-agentic-units/fixture/state"
)

const (
	ServiceName     = "fixture.v1.FixtureService"
	BuildProcedure  = "/" + ServiceName + "/Build"
	StatesProcedure = "/" + ServiceName + "/States"
)

// Request validation errors, reported with connect.CodeInvalidArgument.
var (
	ErrNilCatalog     = errors.New("catalog is nil")
	ErrInvalidRequest = errors.New("invalid build request")
	ErrCountTooLarge  = errors.New("count exceeds server limit")
)

// Server builds fixtures from one catalog.
type Server struct {
	catalog  *catalog.Catalog
	registry *state.Registry[*entity.Record]
	maxCount int
	opts     []builder.Option
}

// New prepares a Server for c. The catalog registry is built once and shared
// read-only by all requests; opts are passed to every request's builder.
func New(c *catalog.Catalog, cfg config.ServerConfig, opts ...builder.Option) (*Server, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}

	reg, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build state registry: %w", err)
	}

	merged := config.DefaultServerConfig()
	merged.Merge(&cfg)

	return &Server{
		catalog:  c,
		registry: reg,
		maxCount: merged.MaxCount,
		opts:     opts,
	}, nil
}

// Handler routes both procedures.
func (s *Server) Handler(opts ...connect.HandlerOption) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(BuildProcedure, connect.NewUnaryHandler(BuildProcedure, s.Build, opts...))
	mux.Handle(StatesProcedure, connect.NewUnaryHandler(StatesProcedure, s.States, opts...))
	return mux
}

// Build handles /fixture.v1.FixtureService/Build.
func (s *Server) Build(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.ListValue], error) {
	states, count, err := parseBuildRequest(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if count > s.maxCount {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %d > %d", ErrCountTooLarge, count, s.maxCount))
	}

	b, err := builder.NewRecords(s.registry, s.catalog.Defaults, s.opts...)
	if err != nil {
		return nil, connectError(err)
	}
	for _, name := range states {
		if _, err := b.State(name); err != nil {
			return nil, connectError(err)
		}
	}

	records, err := b.Many(ctx, count)
	if err != nil {
		return nil, connectError(err)
	}

	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(records))}
	for i, r := range records {
		st, err := structpb.NewStruct(r.Attributes())
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("record %d: %w", i, err))
		}
		list.Values = append(list.Values, structpb.NewStructValue(st))
	}

	return connect.NewResponse(list), nil
}

// States handles /fixture.v1.FixtureService/States.
func (s *Server) States(_ context.Context, _ *connect.Request[structpb.Struct]) (*connect.Response[structpb.ListValue], error) {
	names := s.registry.Names()
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(names))}
	for i, name := range names {
		list.Values[i] = structpb.NewStringValue(name)
	}
	return connect.NewResponse(list), nil
}

func parseBuildRequest(msg *structpb.Struct) ([]string, int, error) {
	var states []string
	count := 1

	for key, v := range msg.GetFields() {
		switch key {
		case "states":
			list, ok := v.GetKind().(*structpb.Value_ListValue)
			if !ok {
				return nil, 0, fmt.Errorf("%w: states must be a list", ErrInvalidRequest)
			}
			for i, item := range list.ListValue.GetValues() {
				name, ok := item.GetKind().(*structpb.Value_StringValue)
				if !ok {
					return nil, 0, fmt.Errorf("%w: states[%d] must be a string", ErrInvalidRequest, i)
				}
				states = append(states, name.StringValue)
			}
		case "count":
			n, ok := v.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return nil, 0, fmt.Errorf("%w: count must be a number", ErrInvalidRequest)
			}
			f := n.NumberValue
			if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
				return nil, 0, fmt.Errorf("%w: count must be a non-negative integer, got %v", ErrInvalidRequest, f)
			}
			count = int(f)
		default:
			return nil, 0, fmt.Errorf("%w: unknown field %q", ErrInvalidRequest, key)
		}
	}

	return states, count, nil
}

func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, state.ErrStateNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, builder.ErrNegativeCount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
