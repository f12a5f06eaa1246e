package shared

import (
	"net/http"

	"qrhrm/internal/platform/requestctx"
)

func requestIDFrom(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
