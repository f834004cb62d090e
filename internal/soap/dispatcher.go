package soap

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

// Result is the outcome of dispatching one envelope. Fault is empty on
// success; Operation is empty when the envelope could not be decoded.
type Result struct {
	Body      []byte
	Status    int
	Operation string
	Fault     FaultCode
}

// Dispatcher turns raw envelopes into operation calls. Every inbound
// request, no matter how broken, produces exactly one response envelope.
type Dispatcher struct {
	registry *Registry
	tokens   ports.TokenService
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewDispatcher(registry *Registry, tokens ports.TokenService, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Handle runs the full pipeline: decode, operation lookup, request
// unmarshal, auth gate, validation, handler invocation, and encoding.
// soapAction and authHeader are the raw SOAPAction and Authorization header
// values; either may be empty.
func (d *Dispatcher) Handle(ctx context.Context, rawBody []byte, soapAction, authHeader string) Result {
	req, err := Decode(rawBody, soapAction)
	if err != nil {
		return d.fault("", FaultValidation, err.Error(), nil)
	}

	op, ok := d.registry.Lookup(req.Operation)
	if !ok {
		return d.fault(req.Operation, FaultUnknownOperation,
			fmt.Sprintf("unknown operation %q", req.Operation), nil)
	}

	typed := op.NewRequest()
	if err := xml.Unmarshal(req.Body, typed); err != nil {
		return d.fault(op.Name, FaultValidation, "malformed request parameters: "+err.Error(), nil)
	}

	var actor *domain.Identity
	if op.RequiresAuth {
		token := bearerFrom(authHeader)
		if token == "" {
			if carrier, ok := typed.(tokenCarrier); ok {
				token = strings.TrimSpace(carrier.bearerToken())
			}
		}
		if token == "" {
			return d.fault(op.Name, FaultAuthRequired, "authentication required", nil)
		}
		identity, err := d.tokens.Validate(token)
		if err != nil {
			return d.fault(op.Name, FaultAuthInvalid, err.Error(), nil)
		}
		actor = &identity
	}

	if fields := validateRequest(d.validate, typed); fields != nil {
		return d.fault(op.Name, FaultValidation, "validation failed", fields)
	}

	result, err := d.invoke(ctx, op, typed, actor)
	if err != nil {
		code, known := faultFor(err)
		if !known {
			d.logger.Error().Err(err).Str("operation", op.Name).Msg("operation failed")
			return d.fault(op.Name, FaultInternal, "internal server error", nil)
		}
		return d.fault(op.Name, code, err.Error(), nil)
	}

	out, err := Encode(result)
	if err != nil {
		d.logger.Error().Err(err).Str("operation", op.Name).Msg("encode response")
		return d.fault(op.Name, FaultInternal, "internal server error", nil)
	}

	return Result{Body: out, Status: http.StatusOK, Operation: op.Name}
}

// invoke calls the operation handler, converting a panic into an error so a
// misbehaving handler still yields a well-formed fault.
func (d *Dispatcher) invoke(ctx context.Context, op *Operation, req any, actor *domain.Identity) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", op.Name, r)
		}
	}()
	return op.Handle(ctx, req, actor)
}

func (d *Dispatcher) fault(operation string, code FaultCode, message string, fields []string) Result {
	return Result{
		Body:      EncodeFault(code, message, fields),
		Status:    http.StatusInternalServerError,
		Operation: operation,
		Fault:     code,
	}
}

// bearerFrom extracts the token from an Authorization header, accepting the
// "Bearer <token>" scheme or a bare token value.
func bearerFrom(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
