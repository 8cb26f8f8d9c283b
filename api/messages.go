// Package api holds the wire surface of the docsync server: the request
// and response messages of DocSyncService and client/server stubs for it.
//
// The message types mirror docsync.proto and are maintained by hand; they
// carry protobuf struct tags and the legacy proto.Message methods, which
// the grpc proto codec marshals through the protobuf legacy support.
package api

import "fmt"

// ActivateClientRequest asks the server to activate the client identified
// by its key.
type ActivateClientRequest struct {
	ClientKey string `protobuf:"bytes,1,opt,name=client_key,json=clientKey,proto3" json:"client_key,omitempty"`
}

func (m *ActivateClientRequest) Reset()         { *m = ActivateClientRequest{} }
func (m *ActivateClientRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ActivateClientRequest) ProtoMessage()    {}

// ActivateClientResponse carries the server-assigned client id.
type ActivateClientResponse struct {
	ClientKey string `protobuf:"bytes,1,opt,name=client_key,json=clientKey,proto3" json:"client_key,omitempty"`
	ClientId  []byte `protobuf:"bytes,2,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
}

func (m *ActivateClientResponse) Reset()         { *m = ActivateClientResponse{} }
func (m *ActivateClientResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ActivateClientResponse) ProtoMessage()    {}

// DeactivateClientRequest asks the server to deactivate the client with
// the given id.
type DeactivateClientRequest struct {
	ClientId []byte `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
}

func (m *DeactivateClientRequest) Reset()         { *m = DeactivateClientRequest{} }
func (m *DeactivateClientRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*DeactivateClientRequest) ProtoMessage()    {}

// DeactivateClientResponse echoes the deactivated client id.
type DeactivateClientResponse struct {
	ClientId []byte `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
}

func (m *DeactivateClientResponse) Reset()         { *m = DeactivateClientResponse{} }
func (m *DeactivateClientResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*DeactivateClientResponse) ProtoMessage()    {}
