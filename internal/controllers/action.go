package controllers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"shipping-system/pkg/contextkeys"
	apperrors "shipping-system/pkg/errors"
)

const idempotencyHeader = "Idempotency-Key"

// actionRequest is the body of an action handler: the action name plus the
// raw top-level fields, so each action can decode its own payload.
type actionRequest struct {
	Action string
	Body   json.RawMessage
	Fields map[string]json.RawMessage
}

func readAction(ctx echo.Context) (*actionRequest, error) {
	body, err := readBody(ctx)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, apperrors.NewValidationError("Invalid JSON body: %v", err)
	}

	req := &actionRequest{Body: body, Fields: fields}
	if raw, ok := fields["action"]; ok {
		if err := json.Unmarshal(raw, &req.Action); err != nil {
			return nil, apperrors.NewValidationError("Action must be a string")
		}
	}
	if req.Action == "" {
		return nil, apperrors.NewValidationError("Action is required")
	}
	return req, nil
}

// Section returns the raw value of a nested payload such as
// "consolidationData". A missing section decodes as an empty object.
func (r *actionRequest) Section(name string) json.RawMessage {
	if raw, ok := r.Fields[name]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return raw
	}
	return json.RawMessage("{}")
}

func readBody(ctx echo.Context) (json.RawMessage, error) {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, apperrors.NewValidationError("Failed to read request body: %v", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("{}"), nil
	}
	return body, nil
}

// bindPayload decodes raw into dst and runs the registered validator.
func bindPayload[T any](ctx echo.Context, raw json.RawMessage, dst *T) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewValidationError("Invalid payload: %v", err)
	}
	return ctx.Validate(dst)
}

func headerIdempotencyKey(ctx echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return ctx.Request().Header.Get(idempotencyHeader)
}

// subject is the authenticated user id, or "" when the request carried no
// verified token.
func subject(ctx echo.Context) string {
	id, _ := ctx.Request().Context().Value(contextkeys.SubjectKey).(string)
	return id
}
