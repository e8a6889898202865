// Package gemini provides an implementation of the generation ports that
// uses Google's Gemini API.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external Gemini AI service.
// It translates between the application's domain models and the Gemini API
// without exposing the details of the external service to the core application.
//
// Key components:
//
// 1. GeminiGenerator:
//   - Implements generation.DistractorGenerator and generation.ContentParser
//   - Handles communication with the Gemini API through google.golang.org/genai
//   - Requests structured JSON output via a response schema
//
// 2. Prompt Management:
//   - Prompt templates are embedded in the binary
//   - Dynamic content is substituted with text/template
//
// 3. Error Handling:
//   - Retries transient errors with exponential backoff and jitter
//   - Translates API failures to the generation package's sentinel errors
//   - Treats safety-filter blocks and malformed output as permanent
package gemini
