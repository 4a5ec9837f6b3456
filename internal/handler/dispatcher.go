// Package handler implements the JSON command protocol: a dispatcher that
// routes decoded requests by their Command field, and one handler method
// per command.  Every response is a single JSON object, either
// {"Success":true, ...} or {"Success":false, "Error":"..."}; errors are
// always reported in-band and never tear down the connection.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// M is a JSON response object.
type M map[string]any

// Func processes one command payload and returns a JSON-serializable
// response.  The raw payload is the full request object, so each handler
// decodes its own parameter struct from it.
type Func func(ctx context.Context, raw json.RawMessage) any

// Registry maps command names to their handlers.  Commands are registered
// once at startup; dispatch is read-only afterwards, so no locking.
type Registry struct {
	handlers map[string]Func
	log      *zap.SugaredLogger
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{handlers: make(map[string]Func), log: log}
}

// Register binds a command name to a handler.  Registering a duplicate
// name panics; that is a wiring bug, not a runtime condition.
func (r *Registry) Register(command string, fn Func) {
	if _, dup := r.handlers[command]; dup {
		panic("duplicate command handler: " + command)
	}
	r.handlers[command] = fn
}

// Dispatch decodes the envelope, selects the handler and runs it.  A panic
// inside a handler is converted into a generic in-band error so one bad
// request cannot take the connection down.
func (r *Registry) Dispatch(ctx context.Context, payload []byte) (resp any) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorw("handler panic", "panic", rec)
			resp = Fail("server error")
		}
	}()

	if len(payload) == 0 {
		return Fail("empty JSON request")
	}
	var envelope struct {
		Command string `json:"Command"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Fail("invalid JSON: " + err.Error())
	}
	if envelope.Command == "" {
		return Fail("missing Command")
	}
	fn, ok := r.handlers[envelope.Command]
	if !ok {
		r.log.Warnw("unknown command", "command", envelope.Command)
		return Fail("unknown command")
	}
	return fn(ctx, payload)
}

// Fail builds the error response shape shared by every command.
func Fail(msg string) M { return M{"Success": false, "Error": msg} }

// validate checks parameter structs after decoding.  The `validate` tags on
// request types declare required fields and ranges.
var validate = validator.New()

// bind decodes a parameter struct from the raw request and validates it.
// The returned error message names the offending fields so the client can
// tell which part of the request was rejected.
func bind(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid request: %s", err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("missing or invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}
