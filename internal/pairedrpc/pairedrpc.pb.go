// Code generated from proto/pairedrpc.proto; struct shape and
// protobuf field tags match the .proto source of truth so the legacy
// struct-tag reflection bridge in codec.go marshals them exactly as
// protoc-gen-go would.

package pairedrpc

import "fmt"

// Empty carries no data; used for RPCs that take or return nothing.
type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return "Empty{}" }
func (*Empty) ProtoMessage()    {}

// ReadRequest is the Read RPC's argument: the block address to fetch.
type ReadRequest struct {
	Addr uint64 `protobuf:"varint,1,opt,name=addr,proto3"`
}

func (m *ReadRequest) Reset()         { *m = ReadRequest{} }
func (m *ReadRequest) String() string { return fmt.Sprintf("ReadRequest{Addr: %d}", m.Addr) }
func (*ReadRequest) ProtoMessage()    {}

// ReadReply carries the 4096-byte block returned by Read.
type ReadReply struct {
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3"`
}

func (m *ReadReply) Reset()         { *m = ReadReply{} }
func (m *ReadReply) String() string { return fmt.Sprintf("ReadReply{%d bytes}", len(m.Data)) }
func (*ReadReply) ProtoMessage()    {}

// WriteRequest is shared by Write and BackupWrite: an address plus its
// full 4096-byte replacement block.
type WriteRequest struct {
	Addr uint64 `protobuf:"varint,1,opt,name=addr,proto3"`
	Data []byte `protobuf:"bytes,2,opt,name=data,proto3"`
}

func (m *WriteRequest) Reset() { *m = WriteRequest{} }
func (m *WriteRequest) String() string {
	return fmt.Sprintf("WriteRequest{Addr: %d, %d bytes}", m.Addr, len(m.Data))
}
func (*WriteRequest) ProtoMessage() {}

// TriggerSyncRequest asks the peer to begin streaming its dirty
// blocks, fenced by sync_id.
type TriggerSyncRequest struct {
	SyncId int32 `protobuf:"varint,1,opt,name=sync_id,json=syncId,proto3"`
}

func (m *TriggerSyncRequest) Reset() { *m = TriggerSyncRequest{} }
func (m *TriggerSyncRequest) String() string {
	return fmt.Sprintf("TriggerSyncRequest{SyncId: %d}", m.SyncId)
}
func (*TriggerSyncRequest) ProtoMessage() {}

// SyncBlockRequest is one dirty block in a sync stream.
type SyncBlockRequest struct {
	SyncId int32  `protobuf:"varint,1,opt,name=sync_id,json=syncId,proto3"`
	Addr   uint64 `protobuf:"varint,2,opt,name=addr,proto3"`
	Data   []byte `protobuf:"bytes,3,opt,name=data,proto3"`
}

func (m *SyncBlockRequest) Reset() { *m = SyncBlockRequest{} }
func (m *SyncBlockRequest) String() string {
	return fmt.Sprintf("SyncBlockRequest{SyncId: %d, Addr: %d}", m.SyncId, m.Addr)
}
func (*SyncBlockRequest) ProtoMessage() {}

// FinishSyncRequest declares a sync stream complete and states the
// expected block count, letting the receiver detect a dropped stream.
type FinishSyncRequest struct {
	SyncId      int32  `protobuf:"varint,1,opt,name=sync_id,json=syncId,proto3"`
	TotalBlocks uint64 `protobuf:"varint,2,opt,name=total_blocks,json=totalBlocks,proto3"`
}

func (m *FinishSyncRequest) Reset() { *m = FinishSyncRequest{} }
func (m *FinishSyncRequest) String() string {
	return fmt.Sprintf("FinishSyncRequest{SyncId: %d, TotalBlocks: %d}", m.SyncId, m.TotalBlocks)
}
func (*FinishSyncRequest) ProtoMessage() {}
