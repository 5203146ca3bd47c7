package invoker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
// Generator RPC. Request and response are google.protobuf.Struct messages:
//
//	request:  {backend, system_prompt, user_text, max_output_tokens}
//	response: {text, output_tokens}
const (
	generatorService = "consensus.v1.Generator"
	generateMethod   = "/" + generatorService + "/Generate"
)
// #endregion wire

// #region client-struct
// GRPC invokes backends through a remote Generator service.
type GRPC struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}
// #endregion client-struct

// #region constructor
// NewGRPC connects to a Generator service. Extra dial options are appended after
// insecure transport credentials. A zero timeout leaves deadlines to the caller.
func NewGRPC(addr string, timeout time.Duration, opts ...grpc.DialOption) (*GRPC, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &GRPC{conn: conn, timeout: timeout}, nil
}
// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (g *GRPC) Close() error {
	return g.conn.Close()
}
// #endregion close

// #region invoke
// Invoke sends one Generate RPC.
func (g *GRPC) Invoke(ctx context.Context, req Request) (Result, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	in, err := structpb.NewStruct(map[string]any{
		"backend":           req.Backend,
		"system_prompt":     req.SystemPrompt,
		"user_text":         req.UserText,
		"max_output_tokens": req.MaxOutputTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode generate request: %w", err)
	}

	out := &structpb.Struct{}
	if err := g.conn.Invoke(ctx, generateMethod, in, out); err != nil {
		return Result{}, fmt.Errorf("generate rpc %s: %w", req.Backend, err)
	}

	fields := out.GetFields()
	text := fields["text"].GetStringValue()
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("generate rpc %s: %w", req.Backend, ErrEmptyResponse)
	}
	tokens := int(fields["output_tokens"].GetNumberValue())
	if tokens == 0 {
		tokens = estimateTokens(text)
	}
	return Result{Text: text, OutputTokens: tokens}, nil
}
// #endregion invoke

// #region server
// RegisterGenerator serves any Invoker as the Generator service on s.
func RegisterGenerator(s grpc.ServiceRegistrar, inv Invoker) {
	s.RegisterService(&generatorServiceDesc, inv)
}

var generatorServiceDesc = grpc.ServiceDesc{
	ServiceName: generatorService,
	HandlerType: (*Invoker)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "consensus/v1/generator.proto",
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := &structpb.Struct{}
	if err := dec(in); err != nil {
		return nil, err
	}
	call := func(ctx context.Context, req any) (any, error) {
		return serveGenerate(ctx, srv.(Invoker), req.(*structpb.Struct))
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMethod}
	return interceptor(ctx, in, info, call)
}

func serveGenerate(ctx context.Context, inv Invoker, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	res, err := inv.Invoke(ctx, Request{
		Backend:         f["backend"].GetStringValue(),
		SystemPrompt:    f["system_prompt"].GetStringValue(),
		UserText:        f["user_text"].GetStringValue(),
		MaxOutputTokens: int(f["max_output_tokens"].GetNumberValue()),
	})
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{
		"text":          res.Text,
		"output_tokens": res.OutputTokens,
	})
}
// #endregion server
