// Package openai implements ai.AIProvider over OpenAI-compatible APIs.
//
// It uses langchaingo to talk to OpenAI or compatible servers (Ollama,
// LocalAI, vLLM). Only transport lives here; prompts and response parsing
// belong to the extraction package.
//
//	provider, err := openai.NewProvider(ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("qwen2.5:7b"),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
package openai
