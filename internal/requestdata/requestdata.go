package requestdata

import (
	"context"
)

type requestDataKey struct{}

// RequestData is the authenticated caller, attached to the request context by
// the auth middleware and read by services.
type RequestData struct {
	UserID     string
	IntranetID string
	Name       string
	Photo      string
	Token      string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
