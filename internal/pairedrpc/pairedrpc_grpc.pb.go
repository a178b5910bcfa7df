// Code generated from proto/pairedrpc.proto by a protoc-gen-go-grpc
// shaped generator; hand-maintained here in place of running protoc,
// but following the exact client/server stub pattern that tool emits
// (see erigon-lib's downloader_grpc.pb.go for the reference shape).

package pairedrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Paired_Ping_FullMethodName        = "/pairedrpc.Paired/Ping"
	Paired_Heartbeat_FullMethodName   = "/pairedrpc.Paired/Heartbeat"
	Paired_Read_FullMethodName        = "/pairedrpc.Paired/Read"
	Paired_Write_FullMethodName       = "/pairedrpc.Paired/Write"
	Paired_BackupWrite_FullMethodName = "/pairedrpc.Paired/BackupWrite"
	Paired_TriggerSync_FullMethodName = "/pairedrpc.Paired/TriggerSync"
	Paired_SyncBlock_FullMethodName   = "/pairedrpc.Paired/SyncBlock"
	Paired_FinishSync_FullMethodName  = "/pairedrpc.Paired/FinishSync"
)

// PairedClient is the client API for the Paired service.
type PairedClient interface {
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	Heartbeat(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	Read(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (*ReadReply, error)
	Write(ctx context.Context, in *WriteRequest, opts ...grpc.CallOption) (*Empty, error)
	BackupWrite(ctx context.Context, in *WriteRequest, opts ...grpc.CallOption) (*Empty, error)
	TriggerSync(ctx context.Context, in *TriggerSyncRequest, opts ...grpc.CallOption) (*Empty, error)
	SyncBlock(ctx context.Context, in *SyncBlockRequest, opts ...grpc.CallOption) (*Empty, error)
	FinishSync(ctx context.Context, in *FinishSyncRequest, opts ...grpc.CallOption) (*Empty, error)
}

type pairedClient struct {
	cc grpc.ClientConnInterface
}

func NewPairedClient(cc grpc.ClientConnInterface) PairedClient {
	return &pairedClient{cc}
}

func (c *pairedClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_Ping_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) Heartbeat(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_Heartbeat_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) Read(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (*ReadReply, error) {
	out := new(ReadReply)
	if err := c.cc.Invoke(ctx, Paired_Read_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) Write(ctx context.Context, in *WriteRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_Write_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) BackupWrite(ctx context.Context, in *WriteRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_BackupWrite_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) TriggerSync(ctx context.Context, in *TriggerSyncRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_TriggerSync_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) SyncBlock(ctx context.Context, in *SyncBlockRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_SyncBlock_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pairedClient) FinishSync(ctx context.Context, in *FinishSyncRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, Paired_FinishSync_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PairedServer is the server API for the Paired service. All
// implementations must embed UnimplementedPairedServer for forward
// compatibility.
type PairedServer interface {
	Ping(context.Context, *Empty) (*Empty, error)
	Heartbeat(context.Context, *Empty) (*Empty, error)
	Read(context.Context, *ReadRequest) (*ReadReply, error)
	Write(context.Context, *WriteRequest) (*Empty, error)
	BackupWrite(context.Context, *WriteRequest) (*Empty, error)
	TriggerSync(context.Context, *TriggerSyncRequest) (*Empty, error)
	SyncBlock(context.Context, *SyncBlockRequest) (*Empty, error)
	FinishSync(context.Context, *FinishSyncRequest) (*Empty, error)
	mustEmbedUnimplementedPairedServer()
}

// UnimplementedPairedServer must be embedded to have forward
// compatible implementations.
type UnimplementedPairedServer struct{}

func (UnimplementedPairedServer) Ping(context.Context, *Empty) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedPairedServer) Heartbeat(context.Context, *Empty) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Heartbeat not implemented")
}
func (UnimplementedPairedServer) Read(context.Context, *ReadRequest) (*ReadReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Read not implemented")
}
func (UnimplementedPairedServer) Write(context.Context, *WriteRequest) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Write not implemented")
}
func (UnimplementedPairedServer) BackupWrite(context.Context, *WriteRequest) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BackupWrite not implemented")
}
func (UnimplementedPairedServer) TriggerSync(context.Context, *TriggerSyncRequest) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method TriggerSync not implemented")
}
func (UnimplementedPairedServer) SyncBlock(context.Context, *SyncBlockRequest) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SyncBlock not implemented")
}
func (UnimplementedPairedServer) FinishSync(context.Context, *FinishSyncRequest) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method FinishSync not implemented")
}
func (UnimplementedPairedServer) mustEmbedUnimplementedPairedServer() {}

func RegisterPairedServer(s grpc.ServiceRegistrar, srv PairedServer) {
	s.RegisterService(&Paired_ServiceDesc, srv)
}

func _Paired_Ping_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_Ping_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).Ping(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_Heartbeat_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).Heartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_Heartbeat_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).Heartbeat(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_Read_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).Read(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_Read_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).Read(ctx, req.(*ReadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_Write_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).Write(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_Write_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).Write(ctx, req.(*WriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_BackupWrite_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).BackupWrite(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_BackupWrite_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).BackupWrite(ctx, req.(*WriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_TriggerSync_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TriggerSyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).TriggerSync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_TriggerSync_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).TriggerSync(ctx, req.(*TriggerSyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_SyncBlock_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SyncBlockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).SyncBlock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_SyncBlock_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).SyncBlock(ctx, req.(*SyncBlockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Paired_FinishSync_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FinishSyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairedServer).FinishSync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Paired_FinishSync_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairedServer).FinishSync(ctx, req.(*FinishSyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Paired_ServiceDesc is the grpc.ServiceDesc for the Paired service.
var Paired_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pairedrpc.Paired",
	HandlerType: (*PairedServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: _Paired_Ping_Handler},
		{MethodName: "Heartbeat", Handler: _Paired_Heartbeat_Handler},
		{MethodName: "Read", Handler: _Paired_Read_Handler},
		{MethodName: "Write", Handler: _Paired_Write_Handler},
		{MethodName: "BackupWrite", Handler: _Paired_BackupWrite_Handler},
		{MethodName: "TriggerSync", Handler: _Paired_TriggerSync_Handler},
		{MethodName: "SyncBlock", Handler: _Paired_SyncBlock_Handler},
		{MethodName: "FinishSync", Handler: _Paired_FinishSync_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/pairedrpc.proto",
}
