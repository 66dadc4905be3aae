package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "geocards.api.v1alpha1.GameService"

// GameServiceServer is the server API for GameService
type GameServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)

	UpdateLocation(context.Context, *UpdateLocationRequest) (*UpdateLocationResponse, error)
	CollectCard(context.Context, *CollectCardRequest) (*CollectCardResponse, error)
	ListInventory(context.Context, *ListInventoryRequest) (*ListInventoryResponse, error)

	StartBattle(context.Context, *StartBattleRequest) (*BattleResponse, error)
	PlayCard(context.Context, *PlayCardRequest) (*PlayCardResponse, error)
	EndTurn(context.Context, *EndTurnRequest) (*EndTurnResponse, error)
	Surrender(context.Context, *SurrenderRequest) (*SurrenderResponse, error)
	GetBattle(context.Context, *GetBattleRequest) (*GetBattleResponse, error)

	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)

	CreateGuild(context.Context, *CreateGuildRequest) (*GuildResponse, error)
	JoinGuild(context.Context, *JoinGuildRequest) (*GuildResponse, error)
	LeaveGuild(context.Context, *LeaveGuildRequest) (*LeaveGuildResponse, error)
	ListGuilds(context.Context, *ListGuildsRequest) (*ListGuildsResponse, error)
}

// RegisterGameServiceServer registers srv on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

// GameServiceDesc describes GameService. Messages travel with the JSON codec.
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", GameServiceServer.Register),
		unary("Login", GameServiceServer.Login),
		unary("Logout", GameServiceServer.Logout),
		unary("UpdateLocation", GameServiceServer.UpdateLocation),
		unary("CollectCard", GameServiceServer.CollectCard),
		unary("ListInventory", GameServiceServer.ListInventory),
		unary("StartBattle", GameServiceServer.StartBattle),
		unary("PlayCard", GameServiceServer.PlayCard),
		unary("EndTurn", GameServiceServer.EndTurn),
		unary("Surrender", GameServiceServer.Surrender),
		unary("GetBattle", GameServiceServer.GetBattle),
		unary("SendMessage", GameServiceServer.SendMessage),
		unary("ListMessages", GameServiceServer.ListMessages),
		unary("CreateGuild", GameServiceServer.CreateGuild),
		unary("JoinGuild", GameServiceServer.JoinGuild),
		unary("LeaveGuild", GameServiceServer.LeaveGuild),
		unary("ListGuilds", GameServiceServer.ListGuilds),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geocards/api/v1alpha1/game.json",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(GameServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GameServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GameServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
