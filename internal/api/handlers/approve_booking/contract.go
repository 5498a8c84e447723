package approve_booking

import (
	"context"

	approveBooking "github.com/m04kA/SMC-ShareItService/internal/usecase/approve_booking"
)

type ApproveBookingUseCase interface {
	Execute(ctx context.Context, req *approveBooking.Request) (*approveBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
