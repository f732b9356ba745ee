package config

import "time"

// Config is the top-level configuration, corresponding to codesense.yaml
type Config struct {
	BaseDir   string          `yaml:"base_dir" koanf:"base_dir"`
	Chunk     ChunkConfig     `yaml:"chunk" koanf:"chunk"`
	Ignore    IgnoreConfig    `yaml:"ignore" koanf:"ignore"`
	Catalog   CatalogConfig   `yaml:"catalog" koanf:"catalog"`
	Embedding EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Index     IndexConfig     `yaml:"index" koanf:"index"`
	Search    SearchConfig    `yaml:"search" koanf:"search"`
}

// ChunkConfig sizes the sliding window
type ChunkConfig struct {
	Size    int `yaml:"size" koanf:"size"`
	Overlap int `yaml:"overlap" koanf:"overlap"`
}

// IgnoreConfig holds ignore patterns
type IgnoreConfig struct {
	Patterns    []string `yaml:"patterns" koanf:"patterns"`
	UseDefaults bool     `yaml:"use_defaults" koanf:"use_defaults"`
}

// CatalogConfig selects which files count as source code
type CatalogConfig struct {
	Extensions  []string `yaml:"extensions" koanf:"extensions"`
	MaxFileSize int64    `yaml:"max_file_size" koanf:"max_file_size"`
}

// EmbeddingConfig selects and tunes the embedding provider.
// API keys are read from OPENAI_API_KEY and JINA_API_KEY, never from the file.
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider" koanf:"provider"`
	Model      string        `yaml:"model" koanf:"model"`
	BaseURL    string        `yaml:"base_url" koanf:"base_url"`
	CacheSize  int           `yaml:"cache_size" koanf:"cache_size"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
	MaxRetries int           `yaml:"max_retries" koanf:"max_retries"`
}

// IndexConfig selects the snippet store
type IndexConfig struct {
	Backend string `yaml:"backend" koanf:"backend"`
	DBPath  string `yaml:"db_path" koanf:"db_path"`
	Workers int    `yaml:"workers" koanf:"workers"`
}

// SearchConfig holds query defaults
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k" koanf:"default_top_k"`
}
