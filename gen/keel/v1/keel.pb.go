// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.11
// 	protoc        (unknown)
// source: keel/v1/keel.proto

package keelv1

import (
	protoreflect "google.golang.org/protobuf/reflect/protoreflect"
	protoimpl "google.golang.org/protobuf/runtime/protoimpl"
	reflect "reflect"
	sync "sync"
	unsafe "unsafe"
)

const (
	// Verify that this generated code is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(20 - protoimpl.MinVersion)
	// Verify that runtime/protoimpl is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(protoimpl.MaxVersion - 20)
)

type ExecuteRequest struct {
	state    protoimpl.MessageState `protogen:"open.v1"`
	Category string                 `protobuf:"bytes,1,opt,name=category,proto3" json:"category,omitempty"`
	Id       string                 `protobuf:"bytes,2,opt,name=id,proto3" json:"id,omitempty"`
	Command  string                 `protobuf:"bytes,3,opt,name=command,proto3" json:"command,omitempty"`
	Payload  string                 `protobuf:"bytes,4,opt,name=payload,proto3" json:"payload,omitempty"`
	// Optional idempotency key; retries with the same causation id replay the
	// original result instead of appending again.
	CausationId   string `protobuf:"bytes,5,opt,name=causation_id,json=causationId,proto3" json:"causation_id,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ExecuteRequest) Reset() {
	*x = ExecuteRequest{}
	mi := &file_keel_v1_keel_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ExecuteRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ExecuteRequest) ProtoMessage() {}

func (x *ExecuteRequest) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ExecuteRequest.ProtoReflect.Descriptor instead.
func (*ExecuteRequest) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{0}
}

func (x *ExecuteRequest) GetCategory() string {
	if x != nil {
		return x.Category
	}
	return ""
}

func (x *ExecuteRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *ExecuteRequest) GetCommand() string {
	if x != nil {
		return x.Command
	}
	return ""
}

func (x *ExecuteRequest) GetPayload() string {
	if x != nil {
		return x.Payload
	}
	return ""
}

func (x *ExecuteRequest) GetCausationId() string {
	if x != nil {
		return x.CausationId
	}
	return ""
}

type ExecuteResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Success       bool                   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	Message       string                 `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	Events        []*Message             `protobuf:"bytes,3,rep,name=events,proto3" json:"events,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ExecuteResponse) Reset() {
	*x = ExecuteResponse{}
	mi := &file_keel_v1_keel_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ExecuteResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ExecuteResponse) ProtoMessage() {}

func (x *ExecuteResponse) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ExecuteResponse.ProtoReflect.Descriptor instead.
func (*ExecuteResponse) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{1}
}

func (x *ExecuteResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *ExecuteResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

func (x *ExecuteResponse) GetEvents() []*Message {
	if x != nil {
		return x.Events
	}
	return nil
}

type PublishRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Name          string                 `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Module        []byte                 `protobuf:"bytes,2,opt,name=module,proto3" json:"module,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *PublishRequest) Reset() {
	*x = PublishRequest{}
	mi := &file_keel_v1_keel_proto_msgTypes[2]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *PublishRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*PublishRequest) ProtoMessage() {}

func (x *PublishRequest) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[2]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use PublishRequest.ProtoReflect.Descriptor instead.
func (*PublishRequest) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{2}
}

func (x *PublishRequest) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *PublishRequest) GetModule() []byte {
	if x != nil {
		return x.Module
	}
	return nil
}

type PublishResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Success       bool                   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	Message       string                 `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	Version       uint64                 `protobuf:"varint,3,opt,name=version,proto3" json:"version,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *PublishResponse) Reset() {
	*x = PublishResponse{}
	mi := &file_keel_v1_keel_proto_msgTypes[3]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *PublishResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*PublishResponse) ProtoMessage() {}

func (x *PublishResponse) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[3]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use PublishResponse.ProtoReflect.Descriptor instead.
func (*PublishResponse) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{3}
}

func (x *PublishResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *PublishResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

func (x *PublishResponse) GetVersion() uint64 {
	if x != nil {
		return x.Version
	}
	return 0
}

type EventInterest struct {
	state protoimpl.MessageState `protogen:"open.v1"`
	// "*" matches every category.
	Category      string `protobuf:"bytes,1,opt,name=category,proto3" json:"category,omitempty"`
	EventType     string `protobuf:"bytes,2,opt,name=event_type,json=eventType,proto3" json:"event_type,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *EventInterest) Reset() {
	*x = EventInterest{}
	mi := &file_keel_v1_keel_proto_msgTypes[4]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *EventInterest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*EventInterest) ProtoMessage() {}

func (x *EventInterest) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[4]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use EventInterest.ProtoReflect.Descriptor instead.
func (*EventInterest) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{4}
}

func (x *EventInterest) GetCategory() string {
	if x != nil {
		return x.Category
	}
	return ""
}

func (x *EventInterest) GetEventType() string {
	if x != nil {
		return x.EventType
	}
	return ""
}

type SubscribeRequest struct {
	state protoimpl.MessageState `protogen:"open.v1"`
	Name  string                 `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	// Empty means all events.
	Filters       []*EventInterest `protobuf:"bytes,2,rep,name=filters,proto3" json:"filters,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *SubscribeRequest) Reset() {
	*x = SubscribeRequest{}
	mi := &file_keel_v1_keel_proto_msgTypes[5]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *SubscribeRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*SubscribeRequest) ProtoMessage() {}

func (x *SubscribeRequest) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[5]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use SubscribeRequest.ProtoReflect.Descriptor instead.
func (*SubscribeRequest) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{5}
}

func (x *SubscribeRequest) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *SubscribeRequest) GetFilters() []*EventInterest {
	if x != nil {
		return x.Filters
	}
	return nil
}

type AckRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Name          string                 `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	GlobalId      uint64                 `protobuf:"varint,2,opt,name=global_id,json=globalId,proto3" json:"global_id,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *AckRequest) Reset() {
	*x = AckRequest{}
	mi := &file_keel_v1_keel_proto_msgTypes[6]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *AckRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*AckRequest) ProtoMessage() {}

func (x *AckRequest) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[6]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use AckRequest.ProtoReflect.Descriptor instead.
func (*AckRequest) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{6}
}

func (x *AckRequest) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *AckRequest) GetGlobalId() uint64 {
	if x != nil {
		return x.GlobalId
	}
	return 0
}

type AckResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Success       bool                   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	Message       string                 `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *AckResponse) Reset() {
	*x = AckResponse{}
	mi := &file_keel_v1_keel_proto_msgTypes[7]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *AckResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*AckResponse) ProtoMessage() {}

func (x *AckResponse) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[7]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use AckResponse.ProtoReflect.Descriptor instead.
func (*AckResponse) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{7}
}

func (x *AckResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *AckResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

type Message struct {
	state    protoimpl.MessageState `protogen:"open.v1"`
	Id       string                 `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	GlobalId uint64                 `protobuf:"varint,2,opt,name=global_id,json=globalId,proto3" json:"global_id,omitempty"`
	// Position is the per-stream sequence.
	Position   uint64 `protobuf:"varint,3,opt,name=position,proto3" json:"position,omitempty"`
	StreamName string `protobuf:"bytes,4,opt,name=stream_name,json=streamName,proto3" json:"stream_name,omitempty"`
	MsgType    string `protobuf:"bytes,5,opt,name=msg_type,json=msgType,proto3" json:"msg_type,omitempty"`
	// Opaque JSON payload.
	Data string `protobuf:"bytes,6,opt,name=data,proto3" json:"data,omitempty"`
	// Milliseconds since the Unix epoch.
	Time          int64 `protobuf:"varint,7,opt,name=time,proto3" json:"time,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *Message) Reset() {
	*x = Message{}
	mi := &file_keel_v1_keel_proto_msgTypes[8]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *Message) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*Message) ProtoMessage() {}

func (x *Message) ProtoReflect() protoreflect.Message {
	mi := &file_keel_v1_keel_proto_msgTypes[8]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use Message.ProtoReflect.Descriptor instead.
func (*Message) Descriptor() ([]byte, []int) {
	return file_keel_v1_keel_proto_rawDescGZIP(), []int{8}
}

func (x *Message) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Message) GetGlobalId() uint64 {
	if x != nil {
		return x.GlobalId
	}
	return 0
}

func (x *Message) GetPosition() uint64 {
	if x != nil {
		return x.Position
	}
	return 0
}

func (x *Message) GetStreamName() string {
	if x != nil {
		return x.StreamName
	}
	return ""
}

func (x *Message) GetMsgType() string {
	if x != nil {
		return x.MsgType
	}
	return ""
}

func (x *Message) GetData() string {
	if x != nil {
		return x.Data
	}
	return ""
}

func (x *Message) GetTime() int64 {
	if x != nil {
		return x.Time
	}
	return 0
}

var File_keel_v1_keel_proto protoreflect.FileDescriptor

const file_keel_v1_keel_proto_rawDesc = "" +
	"\n" +
	"\x12keel/v1/keel.proto\x12\akeel.v1\"\x93\x01\n" +
	"\x0eExecuteRequest\x12\x1a\n" +
	"\bcategory\x18\x01 \x01(\tR\bcategory\x12\x0e\n" +
	"\x02id\x18\x02 \x01(\tR\x02id\x12\x18\n" +
	"\acommand\x18\x03 \x01(\tR\acommand\x12\x18\n" +
	"\apayload\x18\x04 \x01(\tR\apayload\x12!\n" +
	"\fcausation_id\x18\x05 \x01(\tR\vcausationId\"o\n" +
	"\x0fExecuteResponse\x12\x18\n" +
	"\asuccess\x18\x01 \x01(\bR\asuccess\x12\x18\n" +
	"\amessage\x18\x02 \x01(\tR\amessage\x12(\n" +
	"\x06events\x18\x03 \x03(\v2\x10.keel.v1.MessageR\x06events\"<\n" +
	"\x0ePublishRequest\x12\x12\n" +
	"\x04name\x18\x01 \x01(\tR\x04name\x12\x16\n" +
	"\x06module\x18\x02 \x01(\fR\x06module\"_\n" +
	"\x0fPublishResponse\x12\x18\n" +
	"\asuccess\x18\x01 \x01(\bR\asuccess\x12\x18\n" +
	"\amessage\x18\x02 \x01(\tR\amessage\x12\x18\n" +
	"\aversion\x18\x03 \x01(\x04R\aversion\"J\n" +
	"\rEventInterest\x12\x1a\n" +
	"\bcategory\x18\x01 \x01(\tR\bcategory\x12\x1d\n" +
	"\n" +
	"event_type\x18\x02 \x01(\tR\teventType\"X\n" +
	"\x10SubscribeRequest\x12\x12\n" +
	"\x04name\x18\x01 \x01(\tR\x04name\x120\n" +
	"\afilters\x18\x02 \x03(\v2\x16.keel.v1.EventInterestR\afilters\"=\n" +
	"\n" +
	"AckRequest\x12\x12\n" +
	"\x04name\x18\x01 \x01(\tR\x04name\x12\x1b\n" +
	"\tglobal_id\x18\x02 \x01(\x04R\bglobalId\"A\n" +
	"\vAckResponse\x12\x18\n" +
	"\asuccess\x18\x01 \x01(\bR\asuccess\x12\x18\n" +
	"\amessage\x18\x02 \x01(\tR\amessage\"\xb6\x01\n" +
	"\aMessage\x12\x0e\n" +
	"\x02id\x18\x01 \x01(\tR\x02id\x12\x1b\n" +
	"\tglobal_id\x18\x02 \x01(\x04R\bglobalId\x12\x1a\n" +
	"\bposition\x18\x03 \x01(\x04R\bposition\x12\x1f\n" +
	"\vstream_name\x18\x04 \x01(\tR\n" +
	"streamName\x12\x19\n" +
	"\bmsg_type\x18\x05 \x01(\tR\amsgType\x12\x12\n" +
	"\x04data\x18\x06 \x01(\tR\x04data\x12\x12\n" +
	"\x04time\x18\a \x01(\x03R\x04time2\x8f\x02\n" +
	"\x0eRuntimeService\x12<\n" +
	"\aExecute\x12\x17.keel.v1.ExecuteRequest\x1a\x18.keel.v1.ExecuteResponse\x12<\n" +
	"\aPublish\x12\x17.keel.v1.PublishRequest\x1a\x18.keel.v1.PublishResponse\x12B\n" +
	"\x11SubscribeToEvents\x12\x19.keel.v1.SubscribeRequest\x1a\x10.keel.v1.Message0\x01\x12=\n" +
	"\x10AcknowledgeEvent\x12\x13.keel.v1.AckRequest\x1a\x14.keel.v1.AckResponseB.Z,github.com/emberline/keel/gen/keel/v1;keelv1b\x06proto3"

var (
	file_keel_v1_keel_proto_rawDescOnce sync.Once
	file_keel_v1_keel_proto_rawDescData []byte
)

func file_keel_v1_keel_proto_rawDescGZIP() []byte {
	file_keel_v1_keel_proto_rawDescOnce.Do(func() {
		file_keel_v1_keel_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_keel_v1_keel_proto_rawDesc), len(file_keel_v1_keel_proto_rawDesc)))
	})
	return file_keel_v1_keel_proto_rawDescData
}

var file_keel_v1_keel_proto_msgTypes = make([]protoimpl.MessageInfo, 9)
var file_keel_v1_keel_proto_goTypes = []any{
	(*ExecuteRequest)(nil),   // 0: keel.v1.ExecuteRequest
	(*ExecuteResponse)(nil),  // 1: keel.v1.ExecuteResponse
	(*PublishRequest)(nil),   // 2: keel.v1.PublishRequest
	(*PublishResponse)(nil),  // 3: keel.v1.PublishResponse
	(*EventInterest)(nil),    // 4: keel.v1.EventInterest
	(*SubscribeRequest)(nil), // 5: keel.v1.SubscribeRequest
	(*AckRequest)(nil),       // 6: keel.v1.AckRequest
	(*AckResponse)(nil),      // 7: keel.v1.AckResponse
	(*Message)(nil),          // 8: keel.v1.Message
}
var file_keel_v1_keel_proto_depIdxs = []int32{
	8, // 0: keel.v1.ExecuteResponse.events:type_name -> keel.v1.Message
	4, // 1: keel.v1.SubscribeRequest.filters:type_name -> keel.v1.EventInterest
	0, // 2: keel.v1.RuntimeService.Execute:input_type -> keel.v1.ExecuteRequest
	2, // 3: keel.v1.RuntimeService.Publish:input_type -> keel.v1.PublishRequest
	5, // 4: keel.v1.RuntimeService.SubscribeToEvents:input_type -> keel.v1.SubscribeRequest
	6, // 5: keel.v1.RuntimeService.AcknowledgeEvent:input_type -> keel.v1.AckRequest
	1, // 6: keel.v1.RuntimeService.Execute:output_type -> keel.v1.ExecuteResponse
	3, // 7: keel.v1.RuntimeService.Publish:output_type -> keel.v1.PublishResponse
	8, // 8: keel.v1.RuntimeService.SubscribeToEvents:output_type -> keel.v1.Message
	7, // 9: keel.v1.RuntimeService.AcknowledgeEvent:output_type -> keel.v1.AckResponse
	6, // [6:10] is the sub-list for method output_type
	2, // [2:6] is the sub-list for method input_type
	2, // [2:2] is the sub-list for extension type_name
	2, // [2:2] is the sub-list for extension extendee
	0, // [0:2] is the sub-list for field type_name
}

func init() { file_keel_v1_keel_proto_init() }
func file_keel_v1_keel_proto_init() {
	if File_keel_v1_keel_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_keel_v1_keel_proto_rawDesc), len(file_keel_v1_keel_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   9,
			NumExtensions: 0,
			NumServices:   1,
		},
		GoTypes:           file_keel_v1_keel_proto_goTypes,
		DependencyIndexes: file_keel_v1_keel_proto_depIdxs,
		MessageInfos:      file_keel_v1_keel_proto_msgTypes,
	}.Build()
	File_keel_v1_keel_proto = out.File
	file_keel_v1_keel_proto_goTypes = nil
	file_keel_v1_keel_proto_depIdxs = nil
}
