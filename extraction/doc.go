// Package extraction turns text into structured CV records through a
// completion service.
//
// The Client owns prompts, the response schema and strict validation. It caps
// input length, waits on a token-bucket limiter before each call, bounds each
// call with a timeout, and reports every failure as core.ErrTransient with an
// empty result. It performs no writes, so calling it twice on one chunk is
// harmless.
package extraction
