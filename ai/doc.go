// Package ai defines the completion-service collaborator used by extraction.
//
// The extraction client owns prompts, schema and validation; a Completer only
// moves text to and from a model. Two implementations ship with the module:
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo
//   - ai/mock: test doubles with injectable behavior
//
// Public constructors return interfaces (openai.NewProvider returns
// ai.AIProvider). Mock constructors return concrete types so tests can inject
// behavior and read call counts.
//
//	provider, err := openai.NewProvider(ai.NewConfig(ai.WithModel("gpt-4o-mini")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//	text, err := provider.Completer().Complete(ctx, system, user)
package ai
