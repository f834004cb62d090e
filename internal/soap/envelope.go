package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// EnvelopeNS is the SOAP 1.1 envelope namespace.
	EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	// TypesNS is the namespace of all operation request/response elements.
	TypesNS = "http://cumroad.api.soap/types"
)

// DecodeError reports a structurally unusable envelope: malformed XML, a
// missing Body, or anything other than exactly one operation element.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode envelope: " + e.Reason
}

// Request is the decoded form of an inbound envelope: the resolved operation
// name and the raw bytes of the single Body child, ready to be unmarshalled
// into the operation's typed request.
type Request struct {
	Operation string
	Body      []byte
}

type inboundEnvelope struct {
	XMLName xml.Name
	Body    struct {
		Inner []byte `xml:",innerxml"`
	} `xml:"Body"`
}

// Decode parses an inbound envelope and resolves the operation name from the
// Body's single child element, trimming the conventional "Request" suffix.
// actionHint (the SOAPAction header value) is only consulted when the body
// name alone cannot identify the operation.
func Decode(raw []byte, actionHint string) (*Request, error) {
	var env inboundEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	if env.XMLName.Local != "Envelope" {
		return nil, &DecodeError{Reason: fmt.Sprintf("unexpected root element %q", env.XMLName.Local)}
	}
	if len(bytes.TrimSpace(env.Body.Inner)) == 0 {
		return nil, &DecodeError{Reason: "missing or empty Body"}
	}

	name, err := singleChildName(env.Body.Inner)
	if err != nil {
		return nil, err
	}

	op := strings.TrimSuffix(name, "Request")
	if op == "" {
		op = operationFromAction(actionHint)
	}
	if op == "" {
		return nil, &DecodeError{Reason: "unable to resolve operation name"}
	}

	return &Request{Operation: op, Body: env.Body.Inner}, nil
}

// singleChildName scans the body content and returns the local name of its
// one child element. More than one child is a structural error, never a
// partial parse.
func singleChildName(inner []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(inner))
	name := ""
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break // io.EOF ends the scan; malformed XML surfaces at unmarshal
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if name != "" {
					return "", &DecodeError{Reason: "multiple operation elements in Body"}
				}
				name = t.Name.Local
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if name == "" {
		return "", &DecodeError{Reason: "no operation element in Body"}
	}
	return name, nil
}

// operationFromAction extracts an operation name from a SOAPAction header
// value such as `"http://cumroad.api.soap/service/CreateUser"`.
func operationFromAction(action string) string {
	action = strings.Trim(strings.TrimSpace(action), `"`)
	if action == "" {
		return ""
	}
	if i := strings.LastIndexAny(action, "/#"); i >= 0 {
		action = action[i+1:]
	}
	return strings.TrimSuffix(action, "Request")
}

type outboundEnvelope struct {
	XMLName xml.Name     `xml:"soap:Envelope"`
	SoapNS  string       `xml:"xmlns:soap,attr"`
	Body    outboundBody `xml:"soap:Body"`
}

type outboundBody struct {
	Inner []byte `xml:",innerxml"`
}

// Encode wraps a typed response value into a SOAP envelope. The value's own
// XMLName carries the operation response element and its namespace, so empty
// collections still produce their container element.
func Encode(result any) ([]byte, error) {
	payload, err := xml.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return wrap(payload), nil
}

func wrap(payload []byte) []byte {
	env := outboundEnvelope{
		SoapNS: EnvelopeNS,
		Body:   outboundBody{Inner: payload},
	}
	out, err := xml.Marshal(env)
	if err != nil {
		// Marshalling a struct of strings and raw bytes cannot fail at
		// runtime; keep the contract of always returning an envelope anyway.
		return []byte(xml.Header + `<soap:Envelope xmlns:soap="` + EnvelopeNS + `"><soap:Body/></soap:Envelope>`)
	}
	return append([]byte(xml.Header), out...)
}
