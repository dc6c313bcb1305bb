package requestdata

import (
	"context"

	"github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user's id, or nil when the request is
// anonymous (llm-type submissions are allowed without a token).
func UserID(ctx context.Context) *uuid.UUID {
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil
	}
	id := rd.UserID
	return &id
}

type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Username    string
}
