package usecase

import "github.com/sashabaranov/go-openai/jsonschema"

// StructuredRequest is a compiled model invocation: one system and one user
// message plus the single function the model must call.
type StructuredRequest struct {
	System       string
	User         string
	FunctionName string
	Description  string
	Schema       jsonschema.Definition
}
