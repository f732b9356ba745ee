// Package config loads runtime configuration.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (DefaultConfig)
//  2. YAML file, e.g. codesense.yaml
//  3. .env in the working directory (never overrides the real environment)
//  4. CODESENSE_* environment variables
//
// Nested keys use a double underscore in the environment:
//
//	CODESENSE_CHUNK__SIZE=60
//	CODESENSE_INDEX__BACKEND=sqlite
//	CODESENSE_INDEX__DB_PATH=/tmp/codesense.db
//	CODESENSE_IGNORE__PATTERNS=bin,obj,*.generated.cs
//
// API credentials are not configuration keys. They are read from
// OPENAI_API_KEY and JINA_API_KEY by the embedder.
package config
