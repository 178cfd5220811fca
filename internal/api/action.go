package api

// Action is a named, self-describing unit of request-handling logic. An
// instance is constructed fresh per request, validated against its declared
// field sets, performed once, and discarded.
type Action interface {
	// RequiredFields lists the payload fields that must be present.
	RequiredFields() []string
	// OptionalFields lists additional payload fields that may be present.
	// Anything outside required ∪ optional fails validation.
	OptionalFields() []string
	// Perform executes the action and reports success. On failure the
	// action appends safe, human-readable messages via its base.
	Perform(rc *Context) bool
	// Errors returns the messages collected so far.
	Errors() []string
	// Response returns the payload set on success.
	Response() map[string]any
}

// ActionBase supplies the error and response plumbing shared by every
// action. Embed it and implement RequiredFields/Perform.
type ActionBase struct {
	errs []string
	resp map[string]any
}

// OptionalFields defaults to none.
func (b *ActionBase) OptionalFields() []string { return nil }

// AddError appends a user-facing error message.
func (b *ActionBase) AddError(msg string) {
	b.errs = append(b.errs, msg)
}

// Fail appends a message and returns false, for use as a return value.
func (b *ActionBase) Fail(msg string) bool {
	b.AddError(msg)
	return false
}

// Errors returns the collected error messages.
func (b *ActionBase) Errors() []string { return b.errs }

// SetResponse sets the success payload.
func (b *ActionBase) SetResponse(data map[string]any) {
	b.resp = data
}

// Response returns the success payload.
func (b *ActionBase) Response() map[string]any { return b.resp }
