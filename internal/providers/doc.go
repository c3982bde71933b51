// Package providers implements the Gateway interface for each supported
// generative text service.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), Google (Gemini) and
// Ollama / LMStudio for local models.
//
// A Gateway makes exactly one request per call. There is no retry; any
// failure is returned as a *GatewayError and is fatal to the caller. Wrap a
// Gateway with [WithTimeout] to bound each call.
//
// HTTP clients are held in a field so that tests can redirect calls to local
// httptest servers without making live API requests.
package providers
