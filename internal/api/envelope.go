package api

import (
	"context"

	"golang.org/x/net/websocket"

	"wrfcloud/internal/auth"
	"wrfcloud/internal/policy"
)

// Request is the action request envelope. Action and Data arrive in the
// request body; ClientIP and RefID are supplied out of band by the
// transport and the dispatcher respectively.
type Request struct {
	Action string         `json:"action"`
	JWT    string         `json:"jwt,omitempty"`
	Data   map[string]any `json:"data"`

	ClientIP string `json:"-"`
	RefID    string `json:"-"`
}

// Response is the uniform result envelope. Exactly one of Data and Errors
// is populated.
type Response struct {
	OK     bool           `json:"ok"`
	Data   map[string]any `json:"data,omitempty"`
	Errors []string       `json:"errors,omitempty"`
}

// Context carries per-request state into an action. A fresh Context is
// built for every dispatch; nothing in it is shared across requests.
type Context struct {
	Ctx      context.Context
	Request  *Request
	Claims   *auth.Claims // nil for anonymous callers
	ClientIP string
	RefID    string

	// WS is the caller's WebSocket connection. It is non-nil only when the
	// request arrived over the WebSocket transport.
	WS *websocket.Conn
}

// Email returns the authenticated caller's email, or "" when anonymous.
func (c *Context) Email() string {
	if c.Claims == nil {
		return ""
	}
	return c.Claims.Email()
}

// Role returns the caller's role, or the anonymous role.
func (c *Context) Role() string {
	if c.Claims == nil {
		return policy.RoleAnonymous
	}
	return c.Claims.Role
}
