package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// Send bodies are validated against JSON Schemas before any decoding into
// typed requests, so a malformed body is rejected with a precise message
// instead of silently zeroing fields.
const (
	sendTextSchema = `{
		"type": "object",
		"required": ["sessionId", "to", "text"],
		"properties": {
			"sessionId": {"type": "string", "minLength": 1},
			"to": {"type": "string", "minLength": 1},
			"text": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}`

	sendMediaSchema = `{
		"type": "object",
		"required": ["sessionId", "to", "mediaUrl"],
		"properties": {
			"sessionId": {"type": "string", "minLength": 1},
			"to": {"type": "string", "minLength": 1},
			"mediaUrl": {"type": "string", "minLength": 1},
			"caption": {"type": "string"}
		},
		"additionalProperties": false
	}`

	replySchema = `{
		"type": "object",
		"required": ["sessionId", "messageId", "text"],
		"properties": {
			"sessionId": {"type": "string", "minLength": 1},
			"messageId": {"type": "string", "minLength": 1},
			"text": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}`

	sendGroupSchema = `{
		"type": "object",
		"required": ["sessionId", "groupId", "text"],
		"properties": {
			"sessionId": {"type": "string", "minLength": 1},
			"groupId": {"type": "string", "minLength": 1},
			"text": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}`
)

var (
	compiledSendText  = mustCompile("send_text.json", sendTextSchema)
	compiledSendMedia = mustCompile("send_media.json", sendMediaSchema)
	compiledReply     = mustCompile("reply.json", replySchema)
	compiledSendGroup = mustCompile("send_group.json", sendGroupSchema)
)

func mustCompile(name, schemaJSON string) *santhosh.Schema {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource(name, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add schema resource %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// validateBody checks raw JSON against a schema and returns a flat list of
// violation messages on failure.
func validateBody(sch *santhosh.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.New("invalid json body")
	}
	if err := sch.Validate(v); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return errors.New(strings.Join(flattenValidation(ve), "; "))
		}
		return err
	}
	return nil
}

func flattenValidation(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, flattenValidation(cause)...)
	}
	if len(ve.Causes) == 0 {
		msgs = append(msgs, ve.Error())
	}
	return msgs
}
