package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName gRPC服务全名
const ServiceName = "bookcatalog.v1.BookCatalog"

const protoFile = "bookcatalog/v1/catalog.proto"

// BookCatalogServer 图书目录gRPC服务接口
// 请求和响应都使用google.protobuf.Struct,字段与HTTP接口的JSON一致
type BookCatalogServer interface {
	ListBooks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReplaceBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PatchBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteBook(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterBookCatalogServer 注册服务
func RegisterBookCatalogServer(s grpc.ServiceRegistrar, srv BookCatalogServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookCatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListBooks", func(s BookCatalogServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.ListBooks(ctx, in)
		}),
		unary("GetBook", func(s BookCatalogServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.GetBook(ctx, in)
		}),
		unary("CreateBook", func(s BookCatalogServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.CreateBook(ctx, in)
		}),
		unary("ReplaceBook", func(s BookCatalogServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.ReplaceBook(ctx, in)
		}),
		unary("PatchBook", func(s BookCatalogServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.PatchBook(ctx, in)
		}),
		unary("DeleteBook", func(s BookCatalogServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.DeleteBook(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

type unaryCall func(BookCatalogServer, context.Context, *structpb.Struct) (proto.Message, error)

// unary 生成与protoc-gen-go-grpc相同形式的方法处理器
func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BookCatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(BookCatalogServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// BookCatalogClient 客户端(测试和命令行工具使用)
type BookCatalogClient struct {
	cc grpc.ClientConnInterface
}

// NewBookCatalogClient 创建客户端
func NewBookCatalogClient(cc grpc.ClientConnInterface) *BookCatalogClient {
	return &BookCatalogClient{cc: cc}
}

func (c *BookCatalogClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookCatalogClient) ListBooks(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListBooks", in, opts...)
}

func (c *BookCatalogClient) GetBook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetBook", in, opts...)
}

func (c *BookCatalogClient) CreateBook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateBook", in, opts...)
}

func (c *BookCatalogClient) ReplaceBook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ReplaceBook", in, opts...)
}

func (c *BookCatalogClient) PatchBook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "PatchBook", in, opts...)
}

func (c *BookCatalogClient) DeleteBook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/DeleteBook", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// 把服务描述注册到全局protoregistry,gRPC反射(grpcurl describe)才能找到它
func init() {
	const (
		structType = ".google.protobuf.Struct"
		emptyType  = ".google.protobuf.Empty"
	)

	method := func(name, output string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(structType),
			OutputType: proto.String(output),
		}
	}

	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(protoFile),
		Package: proto.String("bookcatalog.v1"),
		Dependency: []string{
			structpb.File_google_protobuf_struct_proto.Path(),
			emptypb.File_google_protobuf_empty_proto.Path(),
		},
		Syntax: proto.String("proto3"),
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("BookCatalog"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("ListBooks", structType),
				method("GetBook", structType),
				method("CreateBook", structType),
				method("ReplaceBook", structType),
				method("PatchBook", structType),
				method("DeleteBook", emptyType),
			},
		}},
	}

	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(err)
	}
}
