package modresolver

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/builder"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/funxy/internal/scope"
)

// GRPCResolver resolves modules against a remote descriptor service over
// gRPC, building its request/response messages at runtime via
// jhump/protoreflect's desc/builder + dynamic packages instead of
// generated .pb.go stubs — useful when the service's schema isn't known
// at CGB's own build time (e.g. a plugin-supplied workspace index).
//
// Grounded on the teacher's go.mod carrying grpc/protoreflect/protobuf
// as direct dependencies with no generated-stub build step in the
// retrieved sources; dynamic messages are the idiomatic way to speak a
// proto service without codegen.
type GRPCResolver struct {
	conn       *grpc.ClientConn
	reqDesc    *desc.MessageDescriptor
	respDesc   *desc.MessageDescriptor
	methodName string
}

// DialGRPCResolver connects to target and builds the GetModule request/
// response descriptors in-process.
func DialGRPCResolver(target string, opts ...grpc.DialOption) (*GRPCResolver, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dialing module resolver at %s: %w", target, err)
	}

	reqMsg, err := builder.NewMessage("GetModuleRequest").
		AddField(builder.NewField("name", builder.FieldTypeString()).SetNumber(1)).
		Build()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("building GetModuleRequest descriptor: %w", err)
	}

	respMsg, err := builder.NewMessage("GetModuleResponse").
		AddField(builder.NewField("found", builder.FieldTypeBool()).SetNumber(1)).
		AddField(builder.NewField("name", builder.FieldTypeString()).SetNumber(2)).
		AddField(builder.NewField("binding_names", builder.FieldTypeString()).SetNumber(3).SetRepeated()).
		Build()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("building GetModuleResponse descriptor: %w", err)
	}

	return &GRPCResolver{
		conn:       conn,
		reqDesc:    reqMsg,
		respDesc:   respMsg,
		methodName: "/funxy.cgb.ModuleResolver/GetModule",
	}, nil
}

func (g *GRPCResolver) Close() error { return g.conn.Close() }

func (g *GRPCResolver) ResolveModuleInfo(ctx context.Context, _ string, requireArg string) (string, bool) {
	return requireArg, true
}

func (g *GRPCResolver) GetModule(ctx context.Context, name string) (*Module, bool) {
	req := dynamic.NewMessage(g.reqDesc)
	req.SetFieldByName("name", name)

	resp := dynamic.NewMessage(g.respDesc)
	if err := g.conn.Invoke(ctx, g.methodName, req, resp); err != nil {
		return nil, false
	}

	found, _ := resp.TryGetFieldByName("found")
	if foundBool, ok := found.(bool); !ok || !foundBool {
		return nil, false
	}

	bindingsRaw, _ := resp.TryGetFieldByName("binding_names")
	names, _ := bindingsRaw.([]any)

	mod := &Module{Name: name, ExportedTypeBindings: make(map[string]scope.TypeFun, len(names))}
	for _, n := range names {
		if s, ok := n.(string); ok {
			// The remote service only names the export, so the name is
			// registered with a zero-valued TypeFun (type handle 0, no
			// generics); no type shape comes over the wire.
			mod.ExportedTypeBindings[s] = scope.TypeFun{}
		}
	}
	return mod, true
}
