package config

import "time"

// SummarizerConfig describes how to reach the external summarization model.
// The model runs behind an HTTP inference endpoint and is treated as an
// opaque text-in/title-out function.  URL is required; the remaining knobs
// have defaults matching the served model.
type SummarizerConfig struct {
    URL             string        // base URL of the inference endpoint
    Model           string        // model name reported by /health and sent upstream
    MaxContextChars int           // inputs longer than this are truncated before the call
    Serialize       bool          // funnel calls through one lock for non-reentrant upstreams
    CacheTTL        time.Duration // lifetime of cached titles in Redis (0 disables caching)
}

// LoadSummarizerConfig reads the summarizer settings from the environment.
// SUMMARIZER_URL is mandatory; everything else falls back to defaults.
func LoadSummarizerConfig() SummarizerConfig {
    return SummarizerConfig{
        URL:             must("SUMMARIZER_URL"),
        Model:           envStr("SUMMARIZER_MODEL_NAME", "ai_paragraph_titler_model"),
        MaxContextChars: envInt("SUMMARIZER_MAX_CONTEXT_CHARS", 4096),
        Serialize:       envBool("SUMMARIZER_SERIALIZE", false),
        CacheTTL:        envDur("TITLE_CACHE_TTL", 10*time.Minute),
    }
}
