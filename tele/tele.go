// Package tele defines telemetry wire messages and client API of pay station.
// Messages are encoded with github.com/golang/protobuf, schema in tele.proto.
package tele

import (
	"github.com/golang/protobuf/proto"
)

type State int32

const (
	State_Invalid      State = 0
	State_Boot         State = 1
	State_Nominal      State = 2
	State_Session      State = 3
	State_Problem      State = 4
	State_Service      State = 5
	State_Disconnected State = 6
)

var State_name = map[int32]string{
	0: "Invalid",
	1: "Boot",
	2: "Nominal",
	3: "Session",
	4: "Problem",
	5: "Service",
	6: "Disconnected",
}

func (x State) String() string { return proto.EnumName(State_name, int32(x)) }

type Telemetry_TransactionKind int32

const (
	Telemetry_InvalidKind Telemetry_TransactionKind = 0
	Telemetry_Purchase    Telemetry_TransactionKind = 1
	Telemetry_Cancel      Telemetry_TransactionKind = 2
)

var Telemetry_TransactionKind_name = map[int32]string{
	0: "InvalidKind",
	1: "Purchase",
	2: "Cancel",
}

func (x Telemetry_TransactionKind) String() string {
	return proto.EnumName(Telemetry_TransactionKind_name, int32(x))
}

type Telemetry struct {
	VmId                 int32                  `protobuf:"varint,1,opt,name=vm_id,json=vmId,proto3" json:"vm_id,omitempty"`
	Time                 int64                  `protobuf:"varint,2,opt,name=time,proto3" json:"time,omitempty"`
	Error                *Telemetry_Error       `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	Transaction          *Telemetry_Transaction `protobuf:"bytes,4,opt,name=transaction,proto3" json:"transaction,omitempty"`
	Cashbox              *Telemetry_Money       `protobuf:"bytes,5,opt,name=cashbox,proto3" json:"cashbox,omitempty"`
	Stat                 *Telemetry_Stat        `protobuf:"bytes,6,opt,name=stat,proto3" json:"stat,omitempty"`
	AtService            bool                   `protobuf:"varint,7,opt,name=at_service,json=atService,proto3" json:"at_service,omitempty"`
	BuildVersion         string                 `protobuf:"bytes,8,opt,name=build_version,json=buildVersion,proto3" json:"build_version,omitempty"`
	Session              *Telemetry_Money       `protobuf:"bytes,9,opt,name=session,proto3" json:"session,omitempty"`
	XXX_NoUnkeyedLiteral struct{}               `json:"-"`
	XXX_unrecognized     []byte                 `json:"-"`
	XXX_sizecache        int32                  `json:"-"`
}

func (m *Telemetry) Reset()         { *m = Telemetry{} }
func (m *Telemetry) String() string { return proto.CompactTextString(m) }
func (*Telemetry) ProtoMessage()    {}

type Telemetry_Error struct {
	Message              string   `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
	Count                uint32   `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_Error) Reset()         { *m = Telemetry_Error{} }
func (m *Telemetry_Error) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Error) ProtoMessage()    {}

type Telemetry_Transaction struct {
	Kind                 Telemetry_TransactionKind `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Minutes              uint32                    `protobuf:"varint,2,opt,name=minutes,proto3" json:"minutes,omitempty"`
	Amount               uint32                    `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Coins                map[uint32]uint32         `protobuf:"bytes,4,rep,name=coins,proto3" json:"coins,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	Issued               int64                     `protobuf:"varint,5,opt,name=issued,proto3" json:"issued,omitempty"`
	XXX_NoUnkeyedLiteral struct{}                  `json:"-"`
	XXX_unrecognized     []byte                    `json:"-"`
	XXX_sizecache        int32                     `json:"-"`
}

func (m *Telemetry_Transaction) Reset()         { *m = Telemetry_Transaction{} }
func (m *Telemetry_Transaction) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Transaction) ProtoMessage()    {}

type Telemetry_Money struct {
	Total                uint32            `protobuf:"varint,1,opt,name=total,proto3" json:"total,omitempty"`
	Coins                map[uint32]uint32 `protobuf:"bytes,2,rep,name=coins,proto3" json:"coins,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	XXX_NoUnkeyedLiteral struct{}          `json:"-"`
	XXX_unrecognized     []byte            `json:"-"`
	XXX_sizecache        int32             `json:"-"`
}

func (m *Telemetry_Money) Reset()         { *m = Telemetry_Money{} }
func (m *Telemetry_Money) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Money) ProtoMessage()    {}

type Telemetry_Stat struct {
	Activity             int64             `protobuf:"varint,1,opt,name=activity,proto3" json:"activity,omitempty"`
	CoinRejected         map[uint32]uint32 `protobuf:"bytes,2,rep,name=coin_rejected,json=coinRejected,proto3" json:"coin_rejected,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	Purchases            uint32            `protobuf:"varint,3,opt,name=purchases,proto3" json:"purchases,omitempty"`
	Cancels              uint32            `protobuf:"varint,4,opt,name=cancels,proto3" json:"cancels,omitempty"`
	XXX_NoUnkeyedLiteral struct{}          `json:"-"`
	XXX_unrecognized     []byte            `json:"-"`
	XXX_sizecache        int32             `json:"-"`
}

func (m *Telemetry_Stat) Reset()         { *m = Telemetry_Stat{} }
func (m *Telemetry_Stat) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Stat) ProtoMessage()    {}

type Command struct {
	Id                   uint32             `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	ReplyTopic           string             `protobuf:"bytes,2,opt,name=reply_topic,json=replyTopic,proto3" json:"reply_topic,omitempty"`
	Report               *Command_ArgReport `protobuf:"bytes,3,opt,name=report,proto3" json:"report,omitempty"`
	Cancel               *Command_ArgCancel `protobuf:"bytes,4,opt,name=cancel,proto3" json:"cancel,omitempty"`
	XXX_NoUnkeyedLiteral struct{}           `json:"-"`
	XXX_unrecognized     []byte             `json:"-"`
	XXX_sizecache        int32              `json:"-"`
}

func (m *Command) Reset()         { *m = Command{} }
func (m *Command) String() string { return proto.CompactTextString(m) }
func (*Command) ProtoMessage()    {}

type Command_ArgReport struct {
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgReport) Reset()         { *m = Command_ArgReport{} }
func (m *Command_ArgReport) String() string { return proto.CompactTextString(m) }
func (*Command_ArgReport) ProtoMessage()    {}

type Command_ArgCancel struct {
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgCancel) Reset()         { *m = Command_ArgCancel{} }
func (m *Command_ArgCancel) String() string { return proto.CompactTextString(m) }
func (*Command_ArgCancel) ProtoMessage()    {}

type Response struct {
	CommandId            uint32   `protobuf:"varint,1,opt,name=command_id,json=commandId,proto3" json:"command_id,omitempty"`
	Error                string   `protobuf:"bytes,2,opt,name=error,proto3" json:"error,omitempty"`
	INTERNALTopic        string   `protobuf:"bytes,2048,opt,name=INTERNAL_topic,json=INTERNALTopic,proto3" json:"INTERNAL_topic,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Response) Reset()         { *m = Response{} }
func (m *Response) String() string { return proto.CompactTextString(m) }
func (*Response) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Telemetry)(nil), "tele.Telemetry")
	proto.RegisterType((*Telemetry_Error)(nil), "tele.Telemetry.Error")
	proto.RegisterType((*Telemetry_Transaction)(nil), "tele.Telemetry.Transaction")
	proto.RegisterType((*Telemetry_Money)(nil), "tele.Telemetry.Money")
	proto.RegisterType((*Telemetry_Stat)(nil), "tele.Telemetry.Stat")
	proto.RegisterType((*Command)(nil), "tele.Command")
	proto.RegisterType((*Command_ArgReport)(nil), "tele.Command.ArgReport")
	proto.RegisterType((*Command_ArgCancel)(nil), "tele.Command.ArgCancel")
	proto.RegisterType((*Response)(nil), "tele.Response")
}

func (m *Telemetry) GetError() *Telemetry_Error {
	if m != nil {
		return m.Error
	}
	return nil
}

func (m *Telemetry) GetTransaction() *Telemetry_Transaction {
	if m != nil {
		return m.Transaction
	}
	return nil
}

func (m *Telemetry) GetCashbox() *Telemetry_Money {
	if m != nil {
		return m.Cashbox
	}
	return nil
}

func (m *Telemetry) GetSession() *Telemetry_Money {
	if m != nil {
		return m.Session
	}
	return nil
}

func (m *Telemetry) GetStat() *Telemetry_Stat {
	if m != nil {
		return m.Stat
	}
	return nil
}

func (m *Telemetry_Money) GetTotal() uint32 {
	if m != nil {
		return m.Total
	}
	return 0
}

func (m *Telemetry_Money) GetCoins() map[uint32]uint32 {
	if m != nil {
		return m.Coins
	}
	return nil
}

func (m *Telemetry_Stat) GetPurchases() uint32 {
	if m != nil {
		return m.Purchases
	}
	return 0
}

func (m *Telemetry_Stat) GetCancels() uint32 {
	if m != nil {
		return m.Cancels
	}
	return 0
}
