package httpx

import (
	"net"
	"net/http"

	"go.uber.org/zap"
)

// ClientMeta describes the caller for logs. IP is taken from RemoteAddr,
// which middleware.RealIP has already rewritten from the proxy headers.
type ClientMeta struct {
	IP        string
	UserAgent string
}

func ClientFromRequest(r *http.Request) ClientMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return ClientMeta{IP: ip, UserAgent: r.UserAgent()}
}

func (c ClientMeta) Fields() []zap.Field {
	return []zap.Field{
		zap.String("client_ip", c.IP),
		zap.String("user_agent", c.UserAgent),
	}
}
