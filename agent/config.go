package agent

import "sync"

// MapConfig provides a map-based configuration implementation. It plays the
// role of the per-agent parameter dictionaries handed around by the config
// generator and assigner.
type MapConfig struct {
	data map[string]interface{}
	mu   sync.RWMutex
}

// NewMapConfig creates a new empty map-based configuration.
func NewMapConfig() Config {
	return &MapConfig{
		data: make(map[string]interface{}),
	}
}

// NewMapConfigFrom creates a new map-based configuration copying existing
// data.
func NewMapConfigFrom(data map[string]interface{}) Config {
	config := &MapConfig{
		data: make(map[string]interface{}, len(data)),
	}
	for key, value := range data {
		config.data[key] = value
	}
	return config
}

// Get retrieves a configuration value.
func (c *MapConfig) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.data[key]
}

// GetString retrieves a string configuration value.
func (c *MapConfig) GetString(key string) string {
	if value := c.Get(key); value != nil {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt retrieves an integer configuration value.
func (c *MapConfig) GetInt(key string) int {
	if value := c.Get(key); value != nil {
		switch v := value.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

// GetFloat retrieves a float configuration value.
func (c *MapConfig) GetFloat(key string) float64 {
	if value := c.Get(key); value != nil {
		switch v := value.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0
}

// GetBool retrieves a boolean configuration value.
func (c *MapConfig) GetBool(key string) bool {
	if value := c.Get(key); value != nil {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return false
}

// Set stores a configuration value.
func (c *MapConfig) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

// Has checks if a configuration key exists.
func (c *MapConfig) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.data[key]
	return exists
}

// Keys returns all configuration keys.
func (c *MapConfig) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys
}

// Clone creates an independent copy of the configuration.
func (c *MapConfig) Clone() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	newConfig := &MapConfig{
		data: make(map[string]interface{}, len(c.data)),
	}
	for key, value := range c.data {
		newConfig.data[key] = value
	}
	return newConfig
}

// Map returns a plain map copy of the configuration, used when serializing
// agent parameters into tournament config files.
func (c *MapConfig) Map() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]interface{}, len(c.data))
	for key, value := range c.data {
		out[key] = value
	}
	return out
}
