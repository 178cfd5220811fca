package api

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"golang.org/x/net/websocket"

	"wrfcloud/internal/auth"
	"wrfcloud/internal/policy"
)

// User-facing messages for structural rejections. Authentication and
// authorization failures are deliberately uniform so callers cannot probe
// for valid sessions or existing action names.
const (
	MsgNotLoggedIn       = "Please log in first"
	MsgUnauthorized      = "This action is unauthorized"
	MsgUnsupportedFields = "Request contained unsupported fields"

	msgMissingFieldFmt = "Missing required field: %s"
	msgRefIDFmt        = "Ref ID: %s"
	msgGeneralErrorFmt = "General system error: %s"
)

// AuditEntry is the per-request record handed to the audit sink.
type AuditEntry struct {
	RefID    string
	Action   string
	Subject  string
	Role     string
	ClientIP string
	OK       bool
	Errors   []string
	Duration time.Duration
}

// AuditSink records dispatched requests. Implementations must not block
// the request path.
type AuditSink interface {
	Record(entry AuditEntry)
}

// Dispatcher is the single entry point for all action requests: it
// authenticates the bearer token, checks the role policy, constructs the
// named action, validates its payload, performs it and wraps the result.
type Dispatcher struct {
	tokens   *auth.TokenService
	policies *policy.Store
	registry *Registry
	audit    AuditSink
}

func NewDispatcher(tokens *auth.TokenService, policies *policy.Store, registry *Registry) (*Dispatcher, error) {
	if err := policies.ValidateActions(registry.Has); err != nil {
		return nil, err
	}
	return &Dispatcher{
		tokens:   tokens,
		policies: policies,
		registry: registry,
	}, nil
}

// SetAuditSink attaches an optional audit sink. Call before serving.
func (d *Dispatcher) SetAuditSink(sink AuditSink) {
	d.audit = sink
}

// Dispatch handles one HTTP-delivered request envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	return d.dispatch(ctx, req, nil)
}

// DispatchWS handles one envelope read off a WebSocket connection. The
// connection is exposed to the action so subscription actions can register
// it for pushes.
func (d *Dispatcher) DispatchWS(ctx context.Context, req *Request, ws *websocket.Conn) *Response {
	return d.dispatch(ctx, req, ws)
}

func (d *Dispatcher) dispatch(ctx context.Context, req *Request, ws *websocket.Conn) *Response {
	started := time.Now()
	refID := NewRefID()
	req.RefID = refID

	resp, claims := d.run(ctx, req, ws, refID)

	if d.audit != nil {
		entry := AuditEntry{
			RefID:    refID,
			Action:   req.Action,
			Role:     policy.RoleAnonymous,
			ClientIP: req.ClientIP,
			OK:       resp.OK,
			Errors:   resp.Errors,
			Duration: time.Since(started),
		}
		if claims != nil {
			entry.Subject = claims.Email()
			entry.Role = claims.Role
		}
		d.audit.Record(entry)
	}

	return resp
}

func (d *Dispatcher) run(ctx context.Context, req *Request, ws *websocket.Conn, refID string) (*Response, *auth.Claims) {
	// Identity. A present-but-invalid token is rejected here, before any
	// policy or action machinery runs; an absent token is the anonymous
	// identity and proceeds.
	var claims *auth.Claims
	if req.JWT != "" {
		validated, ok := d.tokens.Validate(req.JWT)
		if !ok {
			log.Printf("[%s] invalid session token on action %q from %s", refID, req.Action, req.ClientIP)
			return failure(refID, MsgNotLoggedIn), nil
		}
		claims = validated
	}

	role := policy.RoleAnonymous
	if claims != nil {
		role = claims.Role
	}

	// Policy. Unknown action names are absent from every role's permitted
	// set, so they are denied here with the same message as a known but
	// disallowed action.
	if !d.policies.IsPermitted(role, req.Action) {
		log.Printf("[%s] role %q denied action %q from %s", refID, role, req.Action, req.ClientIP)
		return failure(refID, MsgUnauthorized), claims
	}

	factory, ok := d.registry.Lookup(req.Action)
	if !ok {
		// Startup policy validation makes this unreachable; treat it as
		// an internal error rather than crashing.
		log.Printf("[%s] permitted action %q has no registered factory", refID, req.Action)
		return generalError(refID), claims
	}
	action := factory()

	if msgs := validateFields(action, req.Data); len(msgs) > 0 {
		log.Printf("[%s] action %q failed field validation: %v", refID, req.Action, msgs)
		return failure(refID, msgs...), claims
	}

	rc := &Context{
		Ctx:      ctx,
		Request:  req,
		Claims:   claims,
		ClientIP: req.ClientIP,
		RefID:    refID,
		WS:       ws,
	}

	ok, panicked := d.perform(action, rc)
	if panicked {
		return generalError(refID), claims
	}
	if !ok {
		msgs := action.Errors()
		if len(msgs) == 0 {
			return generalError(refID), claims
		}
		return failure(refID, msgs...), claims
	}

	return &Response{OK: true, Data: action.Response()}, claims
}

// perform runs the action, converting a panic into a generic failure. The
// full panic detail stays in the server log, keyed by ref id.
func (d *Dispatcher) perform(action Action, rc *Context) (ok, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] panic in action %q: %v\n%s", rc.RefID, rc.Request.Action, r, debug.Stack())
			ok, panicked = false, true
		}
	}()
	return action.Perform(rc), false
}

// validateFields performs the strict field-set check: one message per
// missing required field, one generic message if any field falls outside
// required ∪ optional.
func validateFields(action Action, data map[string]any) []string {
	var msgs []string

	allowed := make(map[string]bool)
	for _, field := range action.RequiredFields() {
		allowed[field] = true
	}
	for _, field := range action.OptionalFields() {
		allowed[field] = true
	}

	for _, field := range action.RequiredFields() {
		if _, present := data[field]; !present {
			msgs = append(msgs, fmt.Sprintf(msgMissingFieldFmt, field))
		}
	}

	for field := range data {
		if !allowed[field] {
			msgs = append(msgs, MsgUnsupportedFields)
			break
		}
	}

	return msgs
}

func failure(refID string, msgs ...string) *Response {
	errs := make([]string, 0, len(msgs)+1)
	errs = append(errs, msgs...)
	errs = append(errs, fmt.Sprintf(msgRefIDFmt, refID))
	return &Response{OK: false, Errors: errs}
}

func generalError(refID string) *Response {
	return &Response{OK: false, Errors: []string{fmt.Sprintf(msgGeneralErrorFmt, refID)}}
}
