package bench

import "net"

// Dialer returns a net.Dialer applying the keepalive settings.
func (k Keepalive) Dialer() *net.Dialer {
	if !k.Enabled {
		return &net.Dialer{KeepAlive: -1}
	}
	return &net.Dialer{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable:   true,
			Idle:     k.Idle,
			Interval: k.Interval,
			Count:    k.Retries,
		},
	}
}
