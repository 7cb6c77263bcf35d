package mt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"gopkg.in/yaml.v3"
)

const maxPayloadBytes = 1 << 20

func registerData(r *Registry) {
	str := TagsOf(TagString)
	r.Register(&Descriptor{
		Name:   "parse",
		Params: []Param{req(str), opt(TagsOf(TagString, TagLambda))},
		Result: ResultRaw,
		Fn:     builtinParse,
	})
	r.Register(&Descriptor{
		Name:   "json",
		Params: []Param{req(TagsAny)},
		Result: ResultFixed(TagString),
		Fn:     builtinJSON,
	})
}

// builtinParse decodes a JSON or YAML document into a value. The optional
// second argument names the format; without it JSON is tried first.
func builtinParse(_ *Execution, args []Value) (Value, error) {
	raw := args[0].Str()
	if len(raw) > maxPayloadBytes {
		return NewNull(), errorf(ConversionError, "parse: input exceeds limit %d bytes", maxPayloadBytes)
	}
	format := ""
	if len(args) > 1 {
		format = targetName(args[1])
	}
	var (
		v   Value
		err error
	)
	switch format {
	case "json":
		v, err = decodeJSON([]byte(raw))
	case "yaml":
		v, err = decodeYAML([]byte(raw))
	case "":
		if v, err = decodeJSON([]byte(raw)); err != nil {
			v, err = decodeYAML([]byte(raw))
		}
	default:
		return NewNull(), errorf(ConversionError, "parse: unknown format %q", format)
	}
	if err != nil {
		return NewNull(), errorf(ConversionError, "parse: %v", err)
	}
	return v, nil
}

func builtinJSON(_ *Execution, args []Value) (Value, error) {
	encoded, err := valueToJSONValue(args[0])
	if err != nil {
		return NewNull(), errorf(ConversionError, "json: %v", err)
	}
	payload, err := json.Marshal(encoded)
	if err != nil {
		return NewNull(), errorf(ConversionError, "json: %v", err)
	}
	if len(payload) > maxPayloadBytes {
		return NewNull(), errorf(ConversionError, "json: output exceeds limit %d bytes", maxPayloadBytes)
	}
	return NewString(string(payload)), nil
}

// decodeStructured turns a fetched body into a value by content type: JSON
// and YAML documents decode structurally, anything else is returned as text.
func decodeStructured(body []byte, contentType string) (Value, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(contentType))
	}
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSON(body)
	case strings.Contains(mediaType, "yaml"):
		return decodeYAML(body)
	case mediaType == "" || mediaType == "text/plain":
		if v, err := decodeJSON(body); err == nil {
			return v, nil
		}
	}
	return NewString(string(body)), nil
}

func decodeJSON(body []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return NewNull(), fmt.Errorf("invalid JSON: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return NewNull(), fmt.Errorf("invalid JSON: trailing data")
	}
	return jsonValueToValue(decoded)
}

func decodeYAML(body []byte) (Value, error) {
	var decoded any
	if err := yaml.Unmarshal(body, &decoded); err != nil {
		return NewNull(), fmt.Errorf("invalid YAML: %w", err)
	}
	return yamlValueToValue(decoded)
}
