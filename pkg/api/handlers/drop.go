package handlers

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DroppedKey marks a request whose connection was closed without a response.
const DroppedKey = "singingbell.dropped"

// drop closes the client connection without writing a response.
func drop(c *gin.Context, reason error) {
	c.Abort()
	c.Set(DroppedKey, true)

	log.Warn().
		Err(reason).
		Str("path", c.Request.URL.Path).
		Str("client_ip", c.ClientIP()).
		Msg("Dropping request without response")

	conn, err := hijack(c.Writer)
	if err != nil {
		log.Debug().Err(err).Msg("connection not hijackable, leaving response empty")
		return
	}
	_ = conn.Close()
}

func hijack(w http.Hijacker) (conn net.Conn, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hijack: %v", r)
		}
	}()

	conn, _, err = w.Hijack()
	return conn, err
}
