package tcp

import (
	"net"
)

// Client is a thin wrapper over a connection, owning the read buffer.
type Client interface {
	Read() ([]byte, error)
	Write([]byte) error
	Remote() net.Addr
	Close() error
}

type client struct {
	conn net.Conn
	buff []byte
}

func NewClient(conn net.Conn, buff []byte) Client {
	return &client{
		conn: conn,
		buff: buff,
	}
}

// Read reads into the client's buffer. The returned slice is valid until the next call.
func (c *client) Read() ([]byte, error) {
	n, err := c.conn.Read(c.buff)

	return c.buff[:n], err
}

func (c *client) Write(b []byte) error {
	_, err := c.conn.Write(b)

	return err
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
