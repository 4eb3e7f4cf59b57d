// Package generator defines the content generator boundary: the flow calls
// Generate once per turn and receives text plus a confidence estimate. The
// sub-packages adapt the official OpenAI and Anthropic SDKs; Static is a
// deterministic in-process generator for tests and offline operation.
package generator
