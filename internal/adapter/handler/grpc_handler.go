package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/car-rental/internal/core/domain"
	"github.com/rl1809/car-rental/internal/core/service"
)

// RentalServiceName is the fully qualified gRPC service name. Messages are
// google.protobuf.Struct values shaped like the HTTP JSON bodies.
const RentalServiceName = "carrental.v1.RentalService"

type RentalServiceServer interface {
	AvailableCar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FinalPrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Rent(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterRentalServiceServer(s grpc.ServiceRegistrar, srv RentalServiceServer) {
	s.RegisterService(&rentalServiceDesc, srv)
}

var rentalServiceDesc = grpc.ServiceDesc{
	ServiceName: RentalServiceName,
	HandlerType: (*RentalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AvailableCar", Handler: unaryHandler("AvailableCar", RentalServiceServer.AvailableCar)},
		{MethodName: "FinalPrice", Handler: unaryHandler("FinalPrice", RentalServiceServer.FinalPrice)},
		{MethodName: "Rent", Handler: unaryHandler("Rent", RentalServiceServer.Rent)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "carrental/v1/rental.proto",
}

type structMethod func(RentalServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call structMethod) grpc.MethodHandler {
	fullMethod := "/" + RentalServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RentalServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RentalServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type GRPCHandler struct {
	rentalService *service.RentalService
	validate      *validator.Validate
}

func NewGRPCHandler(rentalService *service.RentalService) *GRPCHandler {
	return &GRPCHandler{rentalService: rentalService, validate: validator.New()}
}

func (h *GRPCHandler) AvailableCar(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AvailableCarHTTPRequest
	if err := h.decode(in, &req); err != nil {
		return nil, err
	}

	car, err := h.rentalService.GetAvailableCar(ctx, req.CarCategory)
	if err != nil {
		return nil, grpcError(err)
	}
	return resultStruct(car)
}

func (h *GRPCHandler) FinalPrice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req domain.RentalRequest
	if err := h.decode(in, &req); err != nil {
		return nil, err
	}

	price, err := h.rentalService.CalculateFinalPrice(req)
	if err != nil {
		return nil, grpcError(err)
	}
	return resultStruct(price)
}

func (h *GRPCHandler) Rent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req domain.RentalRequest
	if err := h.decode(in, &req); err != nil {
		return nil, err
	}

	tx, err := h.rentalService.Rent(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return resultStruct(tx)
}

func (h *GRPCHandler) decode(in *structpb.Struct, dst any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, "invalid request body")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return status.Error(codes.InvalidArgument, "invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return status.Error(codes.InvalidArgument, "validation error: "+err.Error())
	}
	return nil
}

func resultStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(ResultHTTPResponse{Result: v})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "car not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
