package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "skywar.battle.v1alpha1.BattleService"

// Full method names
const (
	SubmitFormationMethod    = "/" + ServiceName + "/SubmitFormation"
	JoinByCodeMethod         = "/" + ServiceName + "/JoinByCode"
	SubmitAttackMethod       = "/" + ServiceName + "/SubmitAttack"
	ForceTimeoutAttackMethod = "/" + ServiceName + "/ForceTimeoutAttack"
	BackfillAIOpponentMethod = "/" + ServiceName + "/BackfillAIOpponent"
	GetRoomMethod            = "/" + ServiceName + "/GetRoom"
	CancelRoomMethod         = "/" + ServiceName + "/CancelRoom"
	RandomFormationMethod    = "/" + ServiceName + "/RandomFormation"
)

// BattleServiceServer is the server API for the battle service
type BattleServiceServer interface {
	SubmitFormation(context.Context, *SubmitFormationRequest) (*SubmitFormationResponse, error)
	JoinByCode(context.Context, *JoinByCodeRequest) (*JoinByCodeResponse, error)
	SubmitAttack(context.Context, *SubmitAttackRequest) (*SubmitAttackResponse, error)
	ForceTimeoutAttack(context.Context, *ForceTimeoutAttackRequest) (*ForceTimeoutAttackResponse, error)
	BackfillAIOpponent(context.Context, *BackfillAIOpponentRequest) (*BackfillAIOpponentResponse, error)
	GetRoom(context.Context, *GetRoomRequest) (*GetRoomResponse, error)
	CancelRoom(context.Context, *CancelRoomRequest) (*CancelRoomResponse, error)
	RandomFormation(context.Context, *RandomFormationRequest) (*RandomFormationResponse, error)
}

// RegisterBattleServiceServer registers srv on s
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

// unaryHandler adapts one typed method to a grpc.MethodHandler
func unaryHandler[Req any, Resp any](
	method string,
	call func(BattleServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BattleServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BattleServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BattleServiceDesc describes the battle service for grpc.Server
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SubmitFormation",
			Handler:    unaryHandler(SubmitFormationMethod, BattleServiceServer.SubmitFormation),
		},
		{
			MethodName: "JoinByCode",
			Handler:    unaryHandler(JoinByCodeMethod, BattleServiceServer.JoinByCode),
		},
		{
			MethodName: "SubmitAttack",
			Handler:    unaryHandler(SubmitAttackMethod, BattleServiceServer.SubmitAttack),
		},
		{
			MethodName: "ForceTimeoutAttack",
			Handler:    unaryHandler(ForceTimeoutAttackMethod, BattleServiceServer.ForceTimeoutAttack),
		},
		{
			MethodName: "BackfillAIOpponent",
			Handler:    unaryHandler(BackfillAIOpponentMethod, BattleServiceServer.BackfillAIOpponent),
		},
		{
			MethodName: "GetRoom",
			Handler:    unaryHandler(GetRoomMethod, BattleServiceServer.GetRoom),
		},
		{
			MethodName: "CancelRoom",
			Handler:    unaryHandler(CancelRoomMethod, BattleServiceServer.CancelRoom),
		},
		{
			MethodName: "RandomFormation",
			Handler:    unaryHandler(RandomFormationMethod, BattleServiceServer.RandomFormation),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skywar/battle/v1alpha1/battle.json",
}

// BattleServiceClient is the client API for the battle service
type BattleServiceClient interface {
	SubmitFormation(ctx context.Context, in *SubmitFormationRequest, opts ...grpc.CallOption) (*SubmitFormationResponse, error)
	JoinByCode(ctx context.Context, in *JoinByCodeRequest, opts ...grpc.CallOption) (*JoinByCodeResponse, error)
	SubmitAttack(ctx context.Context, in *SubmitAttackRequest, opts ...grpc.CallOption) (*SubmitAttackResponse, error)
	ForceTimeoutAttack(ctx context.Context, in *ForceTimeoutAttackRequest, opts ...grpc.CallOption) (*ForceTimeoutAttackResponse, error)
	BackfillAIOpponent(ctx context.Context, in *BackfillAIOpponentRequest, opts ...grpc.CallOption) (*BackfillAIOpponentResponse, error)
	GetRoom(ctx context.Context, in *GetRoomRequest, opts ...grpc.CallOption) (*GetRoomResponse, error)
	CancelRoom(ctx context.Context, in *CancelRoomRequest, opts ...grpc.CallOption) (*CancelRoomResponse, error)
	RandomFormation(ctx context.Context, in *RandomFormationRequest, opts ...grpc.CallOption) (*RandomFormationResponse, error)
}

type battleServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBattleServiceClient returns a client that speaks the JSON codec
func NewBattleServiceClient(cc grpc.ClientConnInterface) BattleServiceClient {
	return &battleServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *battleServiceClient) SubmitFormation(ctx context.Context, in *SubmitFormationRequest, opts ...grpc.CallOption) (*SubmitFormationResponse, error) {
	return invoke[SubmitFormationResponse](ctx, c.cc, SubmitFormationMethod, in, opts)
}

func (c *battleServiceClient) JoinByCode(ctx context.Context, in *JoinByCodeRequest, opts ...grpc.CallOption) (*JoinByCodeResponse, error) {
	return invoke[JoinByCodeResponse](ctx, c.cc, JoinByCodeMethod, in, opts)
}

func (c *battleServiceClient) SubmitAttack(ctx context.Context, in *SubmitAttackRequest, opts ...grpc.CallOption) (*SubmitAttackResponse, error) {
	return invoke[SubmitAttackResponse](ctx, c.cc, SubmitAttackMethod, in, opts)
}

func (c *battleServiceClient) ForceTimeoutAttack(ctx context.Context, in *ForceTimeoutAttackRequest, opts ...grpc.CallOption) (*ForceTimeoutAttackResponse, error) {
	return invoke[ForceTimeoutAttackResponse](ctx, c.cc, ForceTimeoutAttackMethod, in, opts)
}

func (c *battleServiceClient) BackfillAIOpponent(ctx context.Context, in *BackfillAIOpponentRequest, opts ...grpc.CallOption) (*BackfillAIOpponentResponse, error) {
	return invoke[BackfillAIOpponentResponse](ctx, c.cc, BackfillAIOpponentMethod, in, opts)
}

func (c *battleServiceClient) GetRoom(ctx context.Context, in *GetRoomRequest, opts ...grpc.CallOption) (*GetRoomResponse, error) {
	return invoke[GetRoomResponse](ctx, c.cc, GetRoomMethod, in, opts)
}

func (c *battleServiceClient) CancelRoom(ctx context.Context, in *CancelRoomRequest, opts ...grpc.CallOption) (*CancelRoomResponse, error) {
	return invoke[CancelRoomResponse](ctx, c.cc, CancelRoomMethod, in, opts)
}

func (c *battleServiceClient) RandomFormation(ctx context.Context, in *RandomFormationRequest, opts ...grpc.CallOption) (*RandomFormationResponse, error) {
	return invoke[RandomFormationResponse](ctx, c.cc, RandomFormationMethod, in, opts)
}
