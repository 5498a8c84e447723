package create_comment

import (
	"context"

	createComment "github.com/m04kA/SMC-ShareItService/internal/usecase/create_comment"
)

type CreateCommentUseCase interface {
	Execute(ctx context.Context, req *createComment.Request) (*createComment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
