package soap

import (
	"encoding/xml"
	"errors"

	"github.com/cumroad/commerce-soap/internal/core/domain"
)

// FaultCode is the stable, transport-independent error code carried in every
// fault detail.
type FaultCode string

const (
	FaultValidation       FaultCode = "ValidationError"
	FaultAuthRequired     FaultCode = "AuthRequired"
	FaultAuthInvalid      FaultCode = "AuthInvalid"
	FaultForbidden        FaultCode = "Forbidden"
	FaultNotFound         FaultCode = "NotFound"
	FaultConflict         FaultCode = "Conflict"
	FaultUnknownOperation FaultCode = "UnknownOperation"
	FaultInternal         FaultCode = "InternalError"
)

// faultFor maps a domain error to its wire fault code. The boolean reports
// whether the error belongs to the closed taxonomy; anything unclassified is
// the caller's cue to emit FaultInternal and log the cause.
func faultFor(err error) (FaultCode, bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return FaultNotFound, true
	case errors.Is(err, domain.ErrEmailTaken):
		return FaultConflict, true
	case errors.Is(err, domain.ErrInvalidOrderStatus):
		return FaultValidation, true
	case errors.Is(err, domain.ErrForbidden):
		return FaultForbidden, true
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenSignature),
		errors.Is(err, domain.ErrTokenMalformed):
		return FaultAuthInvalid, true
	}
	return FaultInternal, false
}

type faultEnvelope struct {
	XMLName xml.Name  `xml:"soap:Envelope"`
	SoapNS  string    `xml:"xmlns:soap,attr"`
	Body    faultBody `xml:"soap:Body"`
}

type faultBody struct {
	Fault faultPayload `xml:"soap:Fault"`
}

type faultPayload struct {
	FaultCode   string      `xml:"faultcode"`
	FaultString string      `xml:"faultstring"`
	Detail      faultDetail `xml:"detail"`
}

type faultDetail struct {
	ServiceFault serviceFault `xml:"ServiceFault"`
}

type serviceFault struct {
	NS      string    `xml:"xmlns,attr"`
	Code    FaultCode `xml:"code"`
	Message string    `xml:"message"`
	Fields  []string  `xml:"fields>field,omitempty"`
}

// EncodeFault renders a SOAP fault envelope carrying the stable code, a
// human-readable message, and (for validation faults) the offending fields.
// It never fails: the dispatcher relies on it as the catch-all response.
func EncodeFault(code FaultCode, message string, fields []string) []byte {
	faultcode := "soap:Client"
	if code == FaultInternal {
		faultcode = "soap:Server"
	}

	env := faultEnvelope{
		SoapNS: EnvelopeNS,
		Body: faultBody{
			Fault: faultPayload{
				FaultCode:   faultcode,
				FaultString: message,
				Detail: faultDetail{
					ServiceFault: serviceFault{
						NS:      TypesNS,
						Code:    code,
						Message: message,
						Fields:  fields,
					},
				},
			},
		},
	}

	out, err := xml.Marshal(env)
	if err != nil {
		return []byte(xml.Header + `<soap:Envelope xmlns:soap="` + EnvelopeNS + `"><soap:Body><soap:Fault><faultcode>soap:Server</faultcode><faultstring>internal server error</faultstring></soap:Fault></soap:Body></soap:Envelope>`)
	}
	return append([]byte(xml.Header), out...)
}
